package checkpoints

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tendermint/checkpoint/types"
)

// Entry is one block the operator asserts is canonical.
type Entry struct {
	Height int64
	Hash   types.Hash
}

// Table is an immutable set of checkpoints ordered by ascending height.
// A Table always holds at least one entry.
type Table struct {
	entries  []Entry
	byHeight map[int64]types.Hash
}

// NewTable copies entries into a new Table, ordering them by height.
// It fails on an empty input, a negative height or a repeated height.
func NewTable(entries ...Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, errors.New("checkpoint table must not be empty")
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height < sorted[j].Height
	})

	byHeight := make(map[int64]types.Hash, len(sorted))
	for i, e := range sorted {
		if e.Height < 0 {
			return nil, fmt.Errorf("checkpoint %d has negative height %d", i, e.Height)
		}
		if _, ok := byHeight[e.Height]; ok {
			return nil, fmt.Errorf("duplicate checkpoint at height %d", e.Height)
		}
		byHeight[e.Height] = e.Hash
	}

	return &Table{entries: sorted, byHeight: byHeight}, nil
}

// MustNewTable is like NewTable but panics. Used for compiled-in tables.
func MustNewTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the trusted hash at height, if any.
func (t *Table) Lookup(height int64) (types.Hash, bool) {
	h, ok := t.byHeight[height]
	return h, ok
}

// Last returns the checkpoint with the greatest height.
func (t *Table) Last() Entry {
	return t.entries[len(t.entries)-1]
}

// Len returns the number of checkpoints.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the checkpoints in ascending height order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Reverse calls fn for every checkpoint from the highest height down to the
// lowest, stopping as soon as fn returns false.
func (t *Table) Reverse(fn func(Entry) bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if !fn(t.entries[i]) {
			return
		}
	}
}
