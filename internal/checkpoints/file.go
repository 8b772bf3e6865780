package checkpoints

import (
	"bytes"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/creachadair/atomicfile"

	"github.com/tendermint/checkpoint/types"
)

// dataFile is the TOML layout of an operator supplied checkpoint table.
//
//	last-checkpoint-time = 1411478807
//	last-checkpoint-tx-count = 93239
//	tx-per-day = 480.0
//
//	[[checkpoint]]
//	height = 0
//	hash = "00000496D303AE6E..."
type dataFile struct {
	LastCheckpointTime    int64       `toml:"last-checkpoint-time"`
	LastCheckpointTxCount int64       `toml:"last-checkpoint-tx-count"`
	TxPerDay              float64     `toml:"tx-per-day"`
	Checkpoints           []entryFile `toml:"checkpoint"`
}

type entryFile struct {
	Height int64      `toml:"height"`
	Hash   types.Hash `toml:"hash"`
}

// LoadDataFile reads checkpoint data from a TOML file and validates it.
func LoadDataFile(path string) (*Data, error) {
	var df dataFile
	md, err := toml.DecodeFile(path, &df)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint table %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("checkpoint table %q has unknown keys: %v", path, undecoded)
	}

	entries := make([]Entry, len(df.Checkpoints))
	for i, e := range df.Checkpoints {
		entries[i] = Entry{Height: e.Height, Hash: e.Hash}
	}
	table, err := NewTable(entries...)
	if err != nil {
		return nil, fmt.Errorf("invalid checkpoint table %q: %w", path, err)
	}

	data := &Data{
		Table:                 table,
		LastCheckpointTime:    time.Unix(df.LastCheckpointTime, 0).UTC(),
		LastCheckpointTxCount: df.LastCheckpointTxCount,
		TxPerDay:              df.TxPerDay,
	}
	if err := data.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid checkpoint table %q: %w", path, err)
	}
	return data, nil
}

// WriteDataFile writes d in the format read by LoadDataFile. The file is
// replaced atomically.
func WriteDataFile(path string, d *Data) error {
	df := dataFile{
		LastCheckpointTime:    d.LastCheckpointTime.Unix(),
		LastCheckpointTxCount: d.LastCheckpointTxCount,
		TxPerDay:              d.TxPerDay,
	}
	for _, e := range d.Table.Entries() {
		df.Checkpoints = append(df.Checkpoints, entryFile{Height: e.Height, Hash: e.Hash})
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(df); err != nil {
		return err
	}
	if _, err := atomicfile.WriteAll(path, &buf, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint table %q: %w", path, err)
	}
	return nil
}
