package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/internal/blockindex"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/types"
)

// genesisHash returns the configured genesis hash, falling back to the
// height 0 checkpoint of the trusted table.
func genesisHash(conf *config.Config, cp *checkpoints.Checkpoints) (types.Hash, error) {
	if conf.GenesisHash != "" {
		return types.HashFromHex(conf.GenesisHash)
	}
	if h, ok := cp.Data().Table.Lookup(0); ok {
		return h, nil
	}
	return types.ZeroHash, nil
}

// openBlockIndex opens the persisted block index. The returned func closes
// the underlying database.
func openBlockIndex(conf *config.Config, dbProvider config.DBProvider) (*blockindex.DBIndex, func() error, error) {
	db, err := dbProvider(config.BlockIndexDBID, conf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open block index: %w", err)
	}
	return blockindex.NewDBIndex(db), db.Close, nil
}

// parseTime accepts unix seconds or an RFC 3339 timestamp.
func parseTime(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want unix seconds or RFC 3339", s)
	}
	return t, nil
}

func formatNode(n *blockindex.Node) string {
	return fmt.Sprintf("height=%d hash=%v chain_tx=%d time=%s main_chain=%t",
		n.Height, n.BlockHash, n.ChainTx, n.Timestamp.UTC().Format(time.RFC3339), n.MainChain)
}
