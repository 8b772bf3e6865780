package blockindex

import (
	"errors"
	"fmt"
	"time"

	"github.com/tendermint/checkpoint/types"
)

// Node is one entry of the block index.
type Node struct {
	Height    int64
	BlockHash types.Hash
	ChainTx   int64
	Timestamp time.Time
	MainChain bool
}

var _ types.BlockIndexNode = (*Node)(nil)

func (n *Node) Hash() types.Hash    { return n.BlockHash }
func (n *Node) ChainTxCount() int64 { return n.ChainTx }
func (n *Node) Time() time.Time     { return n.Timestamp }
func (n *Node) IsOnMainChain() bool { return n.MainChain }

// ValidateBasic performs basic validation.
func (n *Node) ValidateBasic() error {
	switch {
	case n.Height < 0:
		return fmt.Errorf("negative height %d", n.Height)
	case n.ChainTx < 0:
		return fmt.Errorf("negative chain tx count %d", n.ChainTx)
	case n.BlockHash.IsZero():
		return errors.New("missing block hash")
	}
	return nil
}

func (n *Node) copy() *Node {
	c := *n
	return &c
}
