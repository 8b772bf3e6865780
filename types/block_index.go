package types

import "time"

// BlockIndexNode is a read-only view of one entry of the node's block index.
// The index and its nodes are owned by the chain-state manager.
type BlockIndexNode interface {
	// Hash of the block.
	Hash() Hash
	// ChainTxCount is the number of transactions in the chain up to and
	// including this block.
	ChainTxCount() int64
	// Time is the block header timestamp.
	Time() time.Time
	// IsOnMainChain reports whether the block is part of the currently
	// accepted canonical chain.
	IsOnMainChain() bool
}

// BlockIndex maps block hashes to index nodes.
//
// Callers that issue several lookups which must observe the same index state
// are expected to hold whatever lock the owner of the index prescribes.
type BlockIndex interface {
	Has(hash Hash) bool
	// Get returns nil when hash is unknown.
	Get(hash Hash) BlockIndexNode
}
