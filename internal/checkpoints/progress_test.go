package checkpoints_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tendermint/checkpoint/internal/blockindex"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/types"
)

const day = 24 * time.Hour

func TestEstimateProgressNilNode(t *testing.T) {
	cp := checkpoints.New(checkpoints.Mainnet)
	assert.Equal(t, 0.0, cp.EstimateProgress(nil, time.Now()))
	assert.Equal(t, 0.0, cp.ObserveProgress(nil, time.Now()))
}

func TestEstimateProgress(t *testing.T) {
	cp := checkpoints.New(checkpoints.Mainnet, checkpoints.WithData(threeCheckpoints()))

	testCases := []struct {
		name string
		node *blockindex.Node
		now  time.Time
		want float64
	}{
		{
			// done = 1000, ahead = 0 + 1 day * 500 * 5.0
			name: "at last checkpoint, one day later",
			node: node(100, 1000, t0, true),
			now:  t0.Add(day),
			want: 1000.0 / 3500.0,
		},
		{
			// done = 400, ahead = 600 cheap + 2500 expensive
			name: "before last checkpoint",
			node: node(40, 400, t0.Add(-day), true),
			now:  t0.Add(day),
			want: 400.0 / 3500.0,
		},
		{
			name: "at last checkpoint, no time elapsed",
			node: node(100, 1000, t0, true),
			now:  t0,
			want: 1.0,
		},
		{
			// done = 1000 + 200 * 5.0, ahead = half a day * 500 * 5.0
			name: "past last checkpoint",
			node: node(150, 1200, t0.Add(day), true),
			now:  t0.Add(day + day/2),
			want: 2000.0 / (2000.0 + 1250.0),
		},
		{
			name: "past last checkpoint, caught up",
			node: node(150, 1200, t0.Add(day), true),
			now:  t0.Add(day),
			want: 1.0,
		},
		{
			name: "clock behind block time",
			node: node(150, 1200, t0.Add(day), true),
			now:  t0,
			want: 1.0,
		},
		{
			name: "genesis before checkpoint time is reached",
			node: node(0, 0, t0.Add(-day), true),
			now:  t0.Add(-day),
			want: 0.0,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, cp.EstimateProgress(tc.node, tc.now), 1e-12)
		})
	}
}

func TestEstimateProgressZeroWork(t *testing.T) {
	data := threeCheckpoints()
	data.LastCheckpointTxCount = 0
	data.TxPerDay = 0
	cp := checkpoints.New(checkpoints.Mainnet, checkpoints.WithData(data))

	assert.Equal(t, 0.0, cp.EstimateProgress(node(0, 0, t0, true), t0.Add(day)))
}

func TestEstimateProgressUsesNetworkData(t *testing.T) {
	mainnet := checkpoints.New(checkpoints.Mainnet)
	testnet := checkpoints.New(checkpoints.Testnet)

	n := node(10, 3000, time.Unix(1396890000, 0).UTC(), true)
	now := time.Unix(1396890000, 0).UTC()

	assert.Equal(t, 1.0, testnet.EstimateProgress(n, now))
	assert.Less(t, mainnet.EstimateProgress(n, now), 0.1)
}

// chain draws a main chain of nodes with non-decreasing tx counts and
// timestamps. Blocks past the last checkpoint are never older than it.
func drawChain(t *rapid.T, data *checkpoints.Data) []types.BlockIndexNode {
	steps := rapid.IntRange(1, 50).Draw(t, "steps").(int)

	var (
		chainTx int64
		at      = data.LastCheckpointTime.Add(-time.Duration(rapid.Int64Range(0, 1000).Draw(t, "start_days").(int64)) * day)
		nodes   = make([]types.BlockIndexNode, 0, steps)
	)
	for i := 0; i < steps; i++ {
		chainTx += rapid.Int64Range(0, 5000).Draw(t, "txs").(int64)
		at = at.Add(time.Duration(rapid.Int64Range(0, 86400*30).Draw(t, "secs").(int64)) * time.Second)
		if chainTx > data.LastCheckpointTxCount && at.Before(data.LastCheckpointTime) {
			at = data.LastCheckpointTime
		}
		nodes = append(nodes, node(int64(i), chainTx, at, true))
	}
	return nodes
}

func drawData(t *rapid.T) *checkpoints.Data {
	data := threeCheckpoints()
	data.LastCheckpointTxCount = rapid.Int64Range(0, 100000).Draw(t, "last_tx").(int64)
	data.TxPerDay = rapid.Float64Range(0, 10000).Draw(t, "tx_per_day").(float64)
	return data
}

func TestEstimateProgressMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := drawData(t)
		cp := checkpoints.New(checkpoints.Mainnet, checkpoints.WithData(data))

		nodes := drawChain(t, data)
		now := data.LastCheckpointTime.Add(time.Duration(rapid.Int64Range(-86400*365, 86400*3650).Draw(t, "now").(int64)) * time.Second)

		prev := 0.0
		for i, n := range nodes {
			p := cp.EstimateProgress(n, now)
			require.GreaterOrEqual(t, p, prev-1e-9, "node %d", i)
			prev = p
		}
	})
}

func TestEstimateProgressBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := drawData(t)
		cp := checkpoints.New(checkpoints.Mainnet, checkpoints.WithData(data))

		n := node(1,
			rapid.Int64Range(0, 1<<40).Draw(t, "chain_tx").(int64),
			time.Unix(rapid.Int64Range(0, 1<<33).Draw(t, "time").(int64), 0).UTC(),
			true)
		now := time.Unix(rapid.Int64Range(0, 1<<33).Draw(t, "now").(int64), 0).UTC()

		p := cp.EstimateProgress(n, now)
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
	})
}
