package checkpoints

import (
	"github.com/tendermint/checkpoint/types"
)

// TotalBlocksEstimate returns the height of the last checkpoint, a rough
// lower bound of the chain height for progress displays. It is 0 when
// checkpoints are not enforced.
func (cp *Checkpoints) TotalBlocksEstimate() int64 {
	if !cp.Enforced() {
		return 0
	}
	return cp.data.Table.Last().Height
}

// LastCheckpoint returns the index node of the highest checkpoint present in
// index, or nil if there is none or checkpoints are not enforced.
//
// The caller must hold whatever lock keeps index consistent for the duration
// of the call.
func (cp *Checkpoints) LastCheckpoint(index types.BlockIndex) types.BlockIndexNode {
	if !cp.Enforced() {
		return nil
	}

	var found types.BlockIndexNode
	cp.data.Table.Reverse(func(e Entry) bool {
		if node := index.Get(e.Hash); node != nil {
			found = node
			return false
		}
		return true
	})
	return found
}

// LastAvailableCheckpointHash returns the hash of the highest checkpoint that
// is present in index and on the main chain, or genesis if none is.
//
// Unlike LastCheckpoint it neither honors the enforcement switch nor skips
// the test network: it is used to pick a starting anchor, not to reject
// blocks.
func (cp *Checkpoints) LastAvailableCheckpointHash(index types.BlockIndex, genesis types.Hash) types.Hash {
	found := genesis
	cp.data.Table.Reverse(func(e Entry) bool {
		if !index.Has(e.Hash) {
			return true
		}
		if node := index.Get(e.Hash); node != nil && node.IsOnMainChain() {
			found = e.Hash
			return false
		}
		return true
	})
	return found
}

// LatestHardenedCheckpointHash returns the hash of the highest checkpoint,
// whether or not the block is known locally.
func (cp *Checkpoints) LatestHardenedCheckpointHash() types.Hash {
	return cp.data.Table.Last().Hash
}
