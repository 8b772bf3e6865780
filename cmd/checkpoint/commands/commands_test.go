package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/internal/blockindex"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/libs/log"
)

const (
	genesisHex  = "00000496D303AE6E6ED9D474639F18B3FDF70166C8D89D1267BBF5FD640E1690"
	height1Hex  = "000002BDF3C3A74682B7CB835E9A431832728FF056D2A859A1E191F3FF71C378"
	height50Hex = "00000B4D4F7DEC7D1FCFA143CDBDEB9397B55D989D5DA8A148B43FEE07AD63D6"
	lastHex     = "00000000BCC6345CC5AF3E011C86E7AE53825449E19337F0D54AEEF2A07AC65C"
	bogusHex    = "0000000000000000000000000000000000000000000000000000000000000BAD"
)

func TestShowTable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := clearConfig(t, t.TempDir())

	out, err := runCommand(ctx, t, conf, memDBProvider(), "show-table")
	require.NoError(t, err)
	assert.Contains(t, out, "network:                  mainnet")
	assert.Contains(t, out, genesisHex)
	assert.Contains(t, out, lastHex)

	out, err = runCommand(ctx, t, conf, memDBProvider(), "show-table", "-o", "json")
	require.NoError(t, err)

	var view tableView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "mainnet", view.Network)
	assert.True(t, view.Enforced)
	assert.Len(t, view.Checkpoints, 19)
	assert.Equal(t, int64(75000), view.TotalBlocksEstimate)
	assert.Equal(t, int64(93239), view.LastCheckpointTxCount)
	assert.Equal(t, time.Unix(1411478807, 0).UTC(), view.LastCheckpointTime)

	out, err = runCommand(ctx, t, conf, memDBProvider(), "show-table", "-o", "json", "--network", "testnet")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.False(t, view.Enforced)
	assert.Len(t, view.Checkpoints, 1)
	assert.Equal(t, int64(0), view.TotalBlocksEstimate)

	_, err = runCommand(ctx, t, conf, memDBProvider(), "show-table", "-o", "yaml")
	assert.Error(t, err)
}

func TestCheckBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := clearConfig(t, t.TempDir())

	testCases := []struct {
		name    string
		args    []string
		wantOut string
		wantErr bool
	}{
		{"matches checkpoint", []string{"--height", "0", "--hash", genesisHex}, "accepted: matches checkpoint at height 0\n", false},
		{"lowercase with prefix", []string{"--height", "75000", "--hash", "0x" + strings.ToLower(lastHex)}, "accepted: matches checkpoint at height 75000\n", false},
		{"no checkpoint at height", []string{"--height", "2", "--hash", bogusHex}, "accepted\n", false},
		{"contradicts checkpoint", []string{"--height", "50", "--hash", bogusHex}, "rejected: checkpoint at height 50 is " + height50Hex + "\n", true},
		{"testnet never enforces", []string{"--height", "50", "--hash", bogusHex, "--network", "testnet"}, "accepted\n", false},
		{"negative height", []string{"--height", "-1", "--hash", bogusHex}, "", true},
		{"bad hash", []string{"--height", "1", "--hash", "xyz"}, "", true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"check-block"}, tc.args...)
			out, err := runCommand(ctx, t, conf, memDBProvider(), args...)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantOut, out)
		})
	}
}

func TestCheckBlockMismatchError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := clearConfig(t, t.TempDir())

	_, err := runCommand(ctx, t, conf, memDBProvider(), "check-block", "--height", "1", "--hash", bogusHex)
	var mismatch checkpoints.ErrCheckpointMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, int64(1), mismatch.Height)
	assert.Equal(t, height1Hex, mismatch.Want.String())
}

func TestEstimateProgress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := clearConfig(t, t.TempDir())
	dbProvider := memDBProvider()

	out, err := runCommand(ctx, t, conf, dbProvider,
		"estimate-progress", "--tx", "93239", "--time", "1411478807", "--now", "1411478807")
	require.NoError(t, err)
	assert.Equal(t, "1.000000\n", out)

	// one day of expected transactions past the last checkpoint, each five
	// times as expensive: 93239 / (93239 + 480*5)
	out, err = runCommand(ctx, t, conf, dbProvider,
		"estimate-progress", "--tx", "93239", "--time", "2014-09-23T13:26:47Z", "--now", "2014-09-24T13:26:47Z")
	require.NoError(t, err)
	assert.Equal(t, "0.974906\n", out)

	_, err = runCommand(ctx, t, conf, dbProvider, "estimate-progress", "--tx", "10")
	assert.Error(t, err, "--time is required")

	_, err = runCommand(ctx, t, conf, dbProvider, "estimate-progress", "--tx", "10", "--time", "yesterday")
	assert.Error(t, err)

	_, err = runCommand(ctx, t, conf, dbProvider, "estimate-progress")
	assert.Error(t, err, "empty block index")

	_, err = runCommand(ctx, t, conf, dbProvider,
		"index", "add", "--height", "75000", "--hash", lastHex, "--tx", "93239", "--time", "1411478807")
	require.NoError(t, err)

	out, err = runCommand(ctx, t, conf, dbProvider, "estimate-progress", "--now", "1411478807")
	require.NoError(t, err)
	assert.Equal(t, "1.000000\n", out)
}

func TestIndexCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := clearConfig(t, t.TempDir())
	dbProvider := memDBProvider()

	out, err := runCommand(ctx, t, conf, dbProvider, "index", "tip")
	require.NoError(t, err)
	assert.Equal(t, "no main-chain blocks indexed\n", out)

	out, err = runCommand(ctx, t, conf, dbProvider, "index", "last")
	require.NoError(t, err)
	assert.Contains(t, out, "last checkpoint:           none\n")
	assert.Contains(t, out, "last available checkpoint: "+genesisHex+"\n")
	assert.Contains(t, out, "latest hardened checkpoint: "+lastHex+"\n")

	for _, args := range [][]string{
		{"--height", "0", "--hash", genesisHex, "--tx", "1", "--time", "1390095618"},
		{"--height", "1", "--hash", height1Hex, "--tx", "2", "--time", "1390103681"},
		{"--height", "50", "--hash", height50Hex, "--tx", "51", "--time", "1390107000"},
	} {
		_, err = runCommand(ctx, t, conf, dbProvider, append([]string{"index", "add"}, args...)...)
		require.NoError(t, err)
	}

	out, err = runCommand(ctx, t, conf, dbProvider, "index", "tip")
	require.NoError(t, err)
	assert.Equal(t, "height=50 hash="+height50Hex+" chain_tx=51 time=2014-01-19T04:50:00Z main_chain=true\n", out)

	out, err = runCommand(ctx, t, conf, dbProvider, "index", "last")
	require.NoError(t, err)
	assert.Contains(t, out, "last checkpoint:           "+height50Hex+"\n")
	assert.Contains(t, out, "last available checkpoint: "+height50Hex+"\n")

	// a reorg takes height 50 off the main chain
	_, err = runCommand(ctx, t, conf, dbProvider, "index", "set-main-chain", height50Hex, "--on=false")
	require.NoError(t, err)

	out, err = runCommand(ctx, t, conf, dbProvider, "index", "tip")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "height=1 "), out)

	out, err = runCommand(ctx, t, conf, dbProvider, "index", "last")
	require.NoError(t, err)
	assert.Contains(t, out, "last checkpoint:           "+height50Hex+"\n")
	assert.Contains(t, out, "last available checkpoint: "+height1Hex+"\n")

	// testnet ignores the index for LastCheckpoint but not for the anchor
	out, err = runCommand(ctx, t, conf, dbProvider, "index", "last", "--network", "testnet")
	require.NoError(t, err)
	assert.Contains(t, out, "last checkpoint:           none\n")

	_, err = runCommand(ctx, t, conf, dbProvider, "index", "set-main-chain", bogusHex)
	assert.Error(t, err)

	_, err = runCommand(ctx, t, conf, dbProvider, "index", "add", "--height", "3", "--hash", bogusHex, "--tx", "-1")
	assert.Error(t, err)
}

func TestIndexGenesisOverride(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := clearConfig(t, t.TempDir())
	require.NoError(t, os.MkdirAll(conf.RootDir, 0700))
	require.NoError(t, writeConfigVals(conf.RootDir, map[string]string{"genesis-hash": bogusHex}))

	out, err := runCommand(ctx, t, conf, memDBProvider(), "index", "last")
	require.NoError(t, err)
	assert.Contains(t, out, "last available checkpoint: "+bogusHex+"\n")
}

func TestInitAndExportTable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	conf := clearConfig(t, root)
	dbProvider := memDBProvider()

	_, err := runCommand(ctx, t, conf, dbProvider, "init", "--network", "testnet", "--with-table")
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(root, defaultTableFile))

	// the written config is picked up without flags
	conf = config.DefaultConfig()
	conf.SetRoot(root)
	out, err := runCommand(ctx, t, conf, dbProvider, "show-table", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, config.NetworkTestnet, conf.Network)
	assert.Equal(t, defaultTableFile, conf.Checkpoints.TableFile)

	var view tableView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Len(t, view.Checkpoints, 1)

	_, err = runCommand(ctx, t, conf, dbProvider, "init", "--with-table")
	assert.Error(t, err, "table already exists")

	exported := filepath.Join(t.TempDir(), "exported.toml")
	_, err = runCommand(ctx, t, conf, dbProvider, "export-table", exported, "--network", "mainnet")
	require.NoError(t, err)

	// table-file takes precedence over the network's compiled table
	d, err := checkpoints.LoadDataFile(exported)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Table.Len())
	assert.Equal(t, int64(3000), d.LastCheckpointTxCount)
}

func TestServe(t *testing.T) {
	defer leaktest.Check(t)()

	conf := clearConfig(t, t.TempDir())
	dbProvider := memDBProvider()

	_, err := runCommand(context.Background(), t, conf, dbProvider,
		"index", "add", "--height", "75000", "--hash", lastHex, "--tx", "93239", "--time", "1411478807")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err = runCommand(ctx, t, conf, dbProvider, "serve")
	require.NoError(t, err)
}

func TestObserveProgress(t *testing.T) {
	m := &checkpoints.Metrics{
		SyncProgress:        generic.NewGauge("sync_progress"),
		TotalBlocksEstimate: generic.NewGauge("total_blocks_estimate"),
		Mismatches:          generic.NewCounter("mismatches"),
	}
	cp := checkpoints.New(checkpoints.Mainnet, checkpoints.WithMetrics(m))
	index := blockindex.NewDBIndex(dbm.NewMemDB())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// empty index: nothing is observed
	require.NoError(t, observeProgress(ctx, cp, index, time.Millisecond, log.TestingLogger()))
	assert.Equal(t, 0.0, m.SyncProgress.(*generic.Gauge).Value())

	require.NoError(t, index.Save(&blockindex.Node{
		Height:    75000,
		BlockHash: cp.LatestHardenedCheckpointHash(),
		ChainTx:   93239,
		Timestamp: time.Unix(1411478807, 0),
		MainChain: true,
	}))

	require.NoError(t, observeProgress(ctx, cp, index, time.Millisecond, log.TestingLogger()))
	progress := m.SyncProgress.(*generic.Gauge).Value()
	assert.Greater(t, progress, 0.0)
	assert.Less(t, progress, 1.0)
	assert.Equal(t, 75000.0, m.TotalBlocksEstimate.(*generic.Gauge).Value())
}

func TestReset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := clearConfig(t, t.TempDir())
	dbProvider := config.DefaultDBProvider

	_, err := runCommand(ctx, t, conf, dbProvider,
		"index", "add", "--height", "0", "--hash", genesisHex, "--tx", "1", "--time", "1390095618")
	require.NoError(t, err)
	require.DirExists(t, filepath.Join(conf.DBDir(), config.BlockIndexDBID+".db"))

	_, err = runCommand(ctx, t, conf, dbProvider, "reset")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(conf.DBDir(), config.BlockIndexDBID+".db"))
	assert.DirExists(t, conf.DBDir())

	out, err := runCommand(ctx, t, conf, dbProvider, "index", "tip")
	require.NoError(t, err)
	assert.Equal(t, "no main-chain blocks indexed\n", out)
}

func TestServePrometheus(t *testing.T) {
	defer leaktest.Check(t)()

	logger := log.TestingLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	instr := config.TestInstrumentationConfig()
	instr.PrometheusListenAddr = "127.0.0.1:0"
	require.NoError(t, servePrometheus(ctx, instr, logger))

	// a failed listen must not leave the shutdown watcher behind while ctx
	// is still live
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	checkLeaks := leaktest.Check(t)
	instr.PrometheusListenAddr = "not-an-address"
	assert.Error(t, servePrometheus(ctx, instr, logger))
	checkLeaks()
}
