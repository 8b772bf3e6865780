package checkpoints_test

import (
	"fmt"
	"time"

	"github.com/tendermint/checkpoint/internal/blockindex"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/types"
)

var t0 = time.Unix(1411478807, 0).UTC()

// hashAt returns a distinct, recognizable hash for a height.
func hashAt(height int64) types.Hash {
	return types.MustHashFromHex(fmt.Sprintf("0xc0ffee%016x", height))
}

// threeCheckpoints is the table {(0,H0),(100,H100),(200,H200)}.
func threeCheckpoints() *checkpoints.Data {
	return &checkpoints.Data{
		Table: checkpoints.MustNewTable(
			checkpoints.Entry{Height: 0, Hash: hashAt(0)},
			checkpoints.Entry{Height: 100, Hash: hashAt(100)},
			checkpoints.Entry{Height: 200, Hash: hashAt(200)},
		),
		LastCheckpointTime:    t0,
		LastCheckpointTxCount: 1000,
		TxPerDay:              500,
	}
}

func node(height, chainTx int64, at time.Time, mainChain bool) *blockindex.Node {
	return &blockindex.Node{
		Height:    height,
		BlockHash: hashAt(height),
		ChainTx:   chainTx,
		Timestamp: at,
		MainChain: mainChain,
	}
}
