package checkpoints

import (
	"github.com/tendermint/checkpoint/types"
)

// IsAcceptable reports whether a block with the given hash may sit at height.
// Heights without a checkpoint are always acceptable, as is everything when
// checkpoints are not enforced.
func (cp *Checkpoints) IsAcceptable(height int64, hash types.Hash) bool {
	if !cp.Enforced() {
		return true
	}

	want, ok := cp.data.Table.Lookup(height)
	if !ok {
		return true
	}
	return hash == want
}

// VerifyBlock is IsAcceptable for the block acceptance pipeline: a rejected
// block is logged, counted and reported as ErrCheckpointMismatch.
func (cp *Checkpoints) VerifyBlock(height int64, hash types.Hash) error {
	if cp.IsAcceptable(height, hash) {
		return nil
	}

	want, _ := cp.data.Table.Lookup(height)
	cp.metrics.Mismatches.Add(1)
	cp.logger.Error("block contradicts checkpoint",
		"height", height,
		"hash", hash,
		"checkpoint", want)

	return ErrCheckpointMismatch{Height: height, Got: hash, Want: want}
}
