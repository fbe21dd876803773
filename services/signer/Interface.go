// Package signer talks to the signing oracle that turns a coin's key material into a signed
// transaction. Key derivation and signature math live behind the oracle.
package signer

import (
	"context"

	"github.com/commerceblock/mercuryclient/model"
)

type ClientI interface {
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
	// SignWithdrawal returns the hex of a signed transaction spending coin to toAddress, marked as
	// the final withdrawal step. backupCount is the number of backup transactions so far.
	SignWithdrawal(ctx context.Context, coin model.Coin, toAddress string, backupCount uint32, network string, feeRate uint64) (string, error)
}
