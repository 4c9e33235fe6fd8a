package address

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network is a Bitcoin network an address can be encoded for.
type Network uint8

const (
	// Main is the Bitcoin main network.
	Main Network = iota

	// Testnet is the Bitcoin test network. Signet addresses share its
	// prefixes.
	Testnet

	// Regtest is the local regression test network.
	Regtest
)

// String returns the name of the network.
func (n Network) String() string {
	switch n {
	case Main:
		return "main"
	case Testnet:
		return "testnet"
	case Regtest:
		return "regtest"
	default:
		return fmt.Sprintf("UnknownNetwork(%d)", uint8(n))
	}
}

// Params returns the chain parameters holding the address prefixes of the
// network.
func (n Network) Params() *chaincfg.Params {
	switch n {
	case Testnet:
		return &chaincfg.TestNet3Params
	case Regtest:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// ParseNetwork returns the network with the given name.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(name) {
	case "main", "mainnet":
		return Main, nil
	case "testnet", "testnet3", "signet":
		return Testnet, nil
	case "regtest":
		return Regtest, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
}
