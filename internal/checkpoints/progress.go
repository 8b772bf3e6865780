package checkpoints

import (
	"time"

	"github.com/tendermint/checkpoint/types"
)

// SigcheckVerificationFactor is how many times slower a transaction after the
// last checkpoint is expected to verify than one before it. It can't be
// accurate for every system: reindexing from a fast disk with a slow CPU can
// approach 20, while downloading over a slow network with a fast multicore
// CPU stays close to 1.
const SigcheckVerificationFactor = 5.0

const secondsPerDay = 86400.0

// EstimateProgress guesses which fraction of the verification work of an
// initial sync is done once node has been processed. Work is counted as 1.0
// per transaction up to the last checkpoint and SigcheckVerificationFactor
// per transaction after it. Transactions not yet seen are extrapolated from
// TxPerDay.
//
// The result is in [0, 1]; a nil node yields 0.
func (cp *Checkpoints) EstimateProgress(node types.BlockIndexNode, now time.Time) float64 {
	if node == nil {
		return 0.0
	}

	var (
		d         = cp.data
		chainTx   = float64(node.ChainTxCount())
		lastTx    = float64(d.LastCheckpointTxCount)
		workDone  float64 // before and including node
		workAhead float64 // estimated, after node
	)

	if node.ChainTxCount() <= d.LastCheckpointTxCount {
		cheapBefore := chainTx
		cheapAfter := lastTx - chainTx
		expensiveAfter := d.expectedTxsBetween(d.LastCheckpointTime, now)

		workDone = cheapBefore
		workAhead = cheapAfter + expensiveAfter*SigcheckVerificationFactor
	} else {
		cheapBefore := lastTx
		expensiveBefore := chainTx - lastTx
		expensiveAfter := d.expectedTxsBetween(node.Time(), now)

		workDone = cheapBefore + expensiveBefore*SigcheckVerificationFactor
		workAhead = expensiveAfter * SigcheckVerificationFactor
	}

	total := workDone + workAhead
	if total <= 0 {
		return 0.0
	}

	progress := workDone / total
	switch {
	case progress < 0:
		return 0.0
	case progress > 1:
		return 1.0
	}
	return progress
}

// ObserveProgress estimates the progress at node, records it in the
// SyncProgress gauge and returns it.
func (cp *Checkpoints) ObserveProgress(node types.BlockIndexNode, now time.Time) float64 {
	progress := cp.EstimateProgress(node, now)
	cp.metrics.SyncProgress.Set(progress)

	if node != nil {
		cp.logger.Debug("estimated sync progress",
			"hash", node.Hash(),
			"chain_tx", node.ChainTxCount(),
			"progress", progress)
	}
	return progress
}

// expectedTxsBetween extrapolates how many transactions the chain gained
// between from and now. A clock behind from counts as no time elapsed.
func (d *Data) expectedTxsBetween(from, now time.Time) float64 {
	elapsed := now.Sub(from).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed / secondsPerDay * d.TxPerDay
}
