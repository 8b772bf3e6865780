package checkpoints

import (
	"fmt"

	"github.com/tendermint/checkpoint/types"
)

// ErrCheckpointMismatch means a block at a checkpointed height has a hash
// different from the trusted one. The branch containing the block must be
// rejected; retrying never helps.
type ErrCheckpointMismatch struct {
	Height int64
	Got    types.Hash
	Want   types.Hash
}

func (e ErrCheckpointMismatch) Error() string {
	return fmt.Sprintf("block %v at height %d does not match checkpoint %v", e.Got, e.Height, e.Want)
}
