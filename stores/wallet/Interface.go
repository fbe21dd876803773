// Package wallet defines the persistent store for wallets, their coins, activity history and the
// per coin backup transaction ledger.
package wallet

import (
	"context"

	"github.com/commerceblock/mercuryclient/model"
)

// Store is implemented by every wallet store engine.
//
// SaveWallet writes only what the snapshot reports as changed (ChangedCoins and NewActivities), so
// concurrent operations on different coins of one wallet do not overwrite each other. A changed coin
// whose stored status no longer matches its LoadedStatus fails the whole save with an
// InvalidCoinStateError, which is what the loser of a race on the same coin receives, including
// across processes sharing one database.
//
// AppendBackupTx is the only writer of the backup ledger. It requires tx.TxN to be exactly one more
// than the number of stored entries for the statechain and fails with an InvalidSequenceError
// otherwise, which is also what the loser of a concurrent append receives.
type Store interface {
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
	CreateWallet(ctx context.Context, wallet *model.Wallet) error
	GetWallet(ctx context.Context, name string) (*model.Wallet, error)
	ListWallets(ctx context.Context) ([]string, error)
	SaveWallet(ctx context.Context, wallet *model.Wallet) error
	GetBackupTxs(ctx context.Context, statechainID string) ([]model.BackupTx, error)
	AppendBackupTx(ctx context.Context, statechainID string, tx model.BackupTx) error
	AppendActivity(ctx context.Context, walletName string, activity model.Activity) error
	GetActivities(ctx context.Context, walletName string, offset int, limit int) ([]model.Activity, error)
	Close() error
}
