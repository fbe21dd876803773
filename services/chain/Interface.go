// Package chain is the broadcaster side of the client: it pushes raw transactions to a bitcoin node,
// reports their confirmations and asks the statechain server for fee estimates.
package chain

import "context"

type ClientI interface {
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
	Broadcast(ctx context.Context, rawTxHex string) (string, error)
	EstimateFeeRate(ctx context.Context) (uint64, error)
	// GetConfirmations returns the confirmation count of txid and whether the node knows it at all.
	GetConfirmations(ctx context.Context, txid string) (uint32, bool, error)
}
