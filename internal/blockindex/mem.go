package blockindex

import (
	"sync"

	"github.com/tendermint/checkpoint/types"
)

// MemIndex is an in-memory block index guarded by a RWMutex.
//
// Single lookups lock internally. Queries that need several lookups against
// the same state, such as the checkpoint locators, should run inside View.
type MemIndex struct {
	mtx   sync.RWMutex
	nodes map[types.Hash]*Node
}

var _ types.BlockIndex = (*MemIndex)(nil)

// NewMemIndex returns an empty MemIndex.
func NewMemIndex() *MemIndex {
	return &MemIndex{nodes: make(map[types.Hash]*Node)}
}

// Add inserts n, replacing any node with the same hash.
func (idx *MemIndex) Add(n *Node) error {
	if err := n.ValidateBasic(); err != nil {
		return err
	}

	idx.mtx.Lock()
	defer idx.mtx.Unlock()
	idx.nodes[n.BlockHash] = n.copy()
	return nil
}

// SetMainChain moves a known block on or off the main chain. It returns
// false if the block is unknown.
func (idx *MemIndex) SetMainChain(hash types.Hash, onMainChain bool) bool {
	idx.mtx.Lock()
	defer idx.mtx.Unlock()

	n, ok := idx.nodes[hash]
	if !ok {
		return false
	}
	n.MainChain = onMainChain
	return true
}

func (idx *MemIndex) Has(hash types.Hash) bool {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return memView(idx.nodes).Has(hash)
}

func (idx *MemIndex) Get(hash types.Hash) types.BlockIndexNode {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return memView(idx.nodes).Get(hash)
}

// Len returns the number of indexed blocks.
func (idx *MemIndex) Len() int {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return len(idx.nodes)
}

// View calls fn with a read-consistent view of the index. Writers are blocked
// until fn returns; fn must not call back into idx.
func (idx *MemIndex) View(fn func(types.BlockIndex)) {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	fn(memView(idx.nodes))
}

// memView is an unlocked view over the nodes map.
type memView map[types.Hash]*Node

func (v memView) Has(hash types.Hash) bool {
	_, ok := v[hash]
	return ok
}

func (v memView) Get(hash types.Hash) types.BlockIndexNode {
	n, ok := v[hash]
	if !ok {
		return nil
	}
	return n.copy()
}
