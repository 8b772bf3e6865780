package checkpoints

import (
	"fmt"
)

// Network selects which compiled checkpoint data a node trusts.
type Network uint8

const (
	// Mainnet is the production network. Checkpoints are enforced.
	Mainnet Network = iota
	// Testnet is the test network. Checkpoints are never enforced there.
	Testnet
)

const (
	mainnetName = "mainnet"
	testnetName = "testnet"
)

// ParseNetwork converts the config representation of a network. It accepts
// exactly the names config validation accepts.
func ParseNetwork(s string) (Network, error) {
	switch s {
	case mainnetName:
		return Mainnet, nil
	case testnetName:
		return Testnet, nil
	default:
		return Mainnet, fmt.Errorf("unknown network %q (must be %q or %q)", s, mainnetName, testnetName)
	}
}

func (n Network) String() string {
	switch n {
	case Mainnet:
		return mainnetName
	case Testnet:
		return testnetName
	default:
		return fmt.Sprintf("Network(%d)", uint8(n))
	}
}
