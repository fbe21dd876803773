// Package chaincfg maps the network names used in wallets and settings to Bitcoin chain parameters.
package chaincfg

import (
	"strings"

	btcchaincfg "github.com/btcsuite/btcd/chaincfg"
	"github.com/commerceblock/mercuryclient/errors"
)

const (
	Mainnet = "mainnet"
	Testnet = "testnet"
	Signet  = "signet"
	Regtest = "regtest"
)

// GetChainParams returns the parameters for the named network. Bitcoin Core style aliases
// ("main", "test", "bitcoin") are accepted.
func GetChainParams(network string) (*btcchaincfg.Params, error) {
	switch Normalise(network) {
	case Mainnet:
		return &btcchaincfg.MainNetParams, nil
	case Testnet:
		return &btcchaincfg.TestNet3Params, nil
	case Signet:
		return &btcchaincfg.SigNetParams, nil
	case Regtest:
		return &btcchaincfg.RegressionNetParams, nil
	default:
		return nil, errors.NewConfigurationError("unknown network: %s", network)
	}
}

// Normalise returns the canonical network name, or the lower-cased input when it is not recognised.
func Normalise(network string) string {
	n := strings.ToLower(strings.TrimSpace(network))

	switch n {
	case "main", "bitcoin", Mainnet:
		return Mainnet
	case "test", "testnet3", Testnet:
		return Testnet
	case Signet:
		return Signet
	case "regression", Regtest:
		return Regtest
	}

	return n
}
