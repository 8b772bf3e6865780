package blockindex

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/orderedcode"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/checkpoint/types"
)

const (
	// prefixes are unique across all keys of the index
	prefixNode = int64(1)
	prefixTip  = int64(2)
)

/*
DBIndex is a block index persisted in a tm-db database.

Two kinds of records are stored:
 - node: hash -> (height, chain tx count, time, main chain flag)
 - tip:  hash of the main-chain node with the highest chain tx count

NOTE: Has and Get panic if they encounter database errors, indicating
probable corruption on disk.
*/
type DBIndex struct {
	db dbm.DB
}

var _ types.BlockIndex = (*DBIndex)(nil)

// NewDBIndex returns a DBIndex backed by db.
func NewDBIndex(db dbm.DB) *DBIndex {
	return &DBIndex{db: db}
}

// Save persists n and advances the tip when n is a better main-chain node.
// When the tip itself leaves the main chain, the best remaining main-chain
// node becomes the tip.
func (idx *DBIndex) Save(n *Node) error {
	if err := n.ValidateBasic(); err != nil {
		return err
	}

	tip, err := idx.Tip()
	if err != nil {
		return err
	}

	batch := idx.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(nodeKey(n.BlockHash), encodeNode(n)); err != nil {
		return err
	}
	switch {
	case tip != nil && tip.BlockHash == n.BlockHash && (!n.MainChain || n.ChainTx < tip.ChainTx):
		best, err := idx.bestMainChain(n)
		if err != nil {
			return err
		}
		if best == nil {
			err = batch.Delete(tipKey())
		} else {
			err = batch.Set(tipKey(), best.BlockHash[:])
		}
		if err != nil {
			return err
		}
	case n.MainChain && (tip == nil || tip.BlockHash == n.BlockHash || n.ChainTx > tip.ChainTx):
		if err := batch.Set(tipKey(), n.BlockHash[:]); err != nil {
			return err
		}
	}
	return batch.WriteSync()
}

// SetMainChain moves a stored block on or off the main chain.
func (idx *DBIndex) SetMainChain(hash types.Hash, onMainChain bool) error {
	n, err := idx.Load(hash)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("block %v not found", hash)
	}

	n.MainChain = onMainChain
	return idx.Save(n)
}

// Load returns the stored node for hash, or nil if there is none.
func (idx *DBIndex) Load(hash types.Hash) (*Node, error) {
	bz, err := idx.db.Get(nodeKey(hash))
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, nil
	}

	n, err := decodeNode(bz)
	if err != nil {
		return nil, fmt.Errorf("decode node %v: %w", hash, err)
	}
	n.BlockHash = hash
	return n, nil
}

// Tip returns the main-chain node with the highest chain tx count, or nil if
// no main-chain node has been saved.
func (idx *DBIndex) Tip() (*Node, error) {
	bz, err := idx.db.Get(tipKey())
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, nil
	}

	hash, err := types.HashFromBytes(bz)
	if err != nil {
		return nil, fmt.Errorf("decode tip: %w", err)
	}
	return idx.Load(hash)
}

// Size returns the number of stored nodes.
func (idx *DBIndex) Size() (int, error) {
	iter, err := idx.db.Iterator(nodeKeyPrefix(), tipKey())
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	size := 0
	for ; iter.Valid(); iter.Next() {
		size++
	}
	return size, iter.Error()
}

func (idx *DBIndex) Has(hash types.Hash) bool {
	ok, err := idx.db.Has(nodeKey(hash))
	if err != nil {
		panic(err)
	}
	return ok
}

func (idx *DBIndex) Get(hash types.Hash) types.BlockIndexNode {
	n, err := idx.Load(hash)
	if err != nil {
		panic(err)
	}
	if n == nil {
		return nil
	}
	return n
}

// bestMainChain scans all nodes for the best main-chain node, taking pending
// in place of its stored record.
func (idx *DBIndex) bestMainChain(pending *Node) (*Node, error) {
	iter, err := idx.db.Iterator(nodeKeyPrefix(), tipKey())
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var best *Node
	if pending.MainChain {
		best = pending
	}
	for ; iter.Valid(); iter.Next() {
		hash, err := decodeNodeKey(iter.Key())
		if err != nil {
			return nil, err
		}
		if hash == pending.BlockHash {
			continue
		}
		n, err := decodeNode(iter.Value())
		if err != nil {
			return nil, err
		}
		n.BlockHash = hash
		if n.MainChain && (best == nil || n.ChainTx > best.ChainTx) {
			best = n
		}
	}
	return best, iter.Error()
}

//-----------------------------------------------------------------------------
// keys and records

func nodeKeyPrefix() []byte {
	key, err := orderedcode.Append(nil, prefixNode)
	if err != nil {
		panic(err)
	}
	return key
}

func nodeKey(hash types.Hash) []byte {
	key, err := orderedcode.Append(nil, prefixNode, string(hash[:]))
	if err != nil {
		panic(err)
	}
	return key
}

func decodeNodeKey(key []byte) (types.Hash, error) {
	var (
		prefix int64
		raw    string
	)
	remaining, err := orderedcode.Parse(string(key), &prefix, &raw)
	if err != nil {
		return types.Hash{}, err
	}
	if len(remaining) != 0 {
		return types.Hash{}, fmt.Errorf("expected complete key but got remainder: %s", remaining)
	}
	if prefix != prefixNode {
		return types.Hash{}, fmt.Errorf("incorrect prefix. Expected %v, got %v", prefixNode, prefix)
	}
	return types.HashFromBytes([]byte(raw))
}

func tipKey() []byte {
	key, err := orderedcode.Append(nil, prefixTip)
	if err != nil {
		panic(err)
	}
	return key
}

func encodeNode(n *Node) []byte {
	var mainChain int64
	if n.MainChain {
		mainChain = 1
	}
	bz, err := orderedcode.Append(nil, n.Height, n.ChainTx, n.Timestamp.UnixNano(), mainChain)
	if err != nil {
		panic(err)
	}
	return bz
}

func decodeNode(bz []byte) (*Node, error) {
	var height, chainTx, nanos, mainChain int64
	remaining, err := orderedcode.Parse(string(bz), &height, &chainTx, &nanos, &mainChain)
	if err != nil {
		return nil, err
	}
	if len(remaining) != 0 {
		return nil, errors.New("trailing bytes in node record")
	}
	return &Node{
		Height:    height,
		ChainTx:   chainTx,
		Timestamp: time.Unix(0, nanos).UTC(),
		MainChain: mainChain == 1,
	}, nil
}
