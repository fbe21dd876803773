package sql

import (
	"context"
	"database/sql"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
)

// SaveWallet writes the snapshot's changed coins and appends its new activities in one transaction.
//
// A coin that was loaded with the snapshot is only updated while its stored status still equals the
// loaded status; otherwise the whole save fails with an InvalidCoinStateError. Coins added through
// WithCoin are inserted and fail the same way when a row already exists.
func (s *SQL) SaveWallet(ctx context.Context, wallet *model.Wallet) error {
	if !wallet.HasChanges() {
		return nil
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := lockWallet(ctx, tx, wallet.Name())
		if err != nil {
			return err
		}

		for _, coin := range wallet.ChangedCoins() {
			if loaded, ok := wallet.LoadedStatus(coin.StatechainID); ok {
				err = updateCoin(ctx, tx, wallet.Name(), coin, loaded)
			} else {
				err = insertCoin(ctx, tx, wallet.Name(), coin)
			}

			if err != nil {
				return err
			}
		}

		for _, activity := range wallet.NewActivities() {
			if err = insertActivity(ctx, tx, wallet.Name(), activity); err != nil {
				return err
			}
		}

		return nil
	})
}

// lockWallet opens the transaction with a write on the wallet row so that the rest of the save runs
// under the engine's write lock (sqlite) or the row lock (postgres).
func lockWallet(ctx context.Context, q querier, name string) error {
	res, err := q.ExecContext(ctx, `UPDATE wallets SET network = network WHERE name = $1`, name)
	if err != nil {
		return errors.NewStorageError("failed to lock wallet %s", name, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return errors.NewStorageError("failed to lock wallet %s", name, err)
	}

	if rows == 0 {
		return errors.NewWalletNotFoundError("wallet %s not found", name)
	}

	return nil
}

// updateCoin never touches amount.
func updateCoin(ctx context.Context, q querier, walletName string, coin model.Coin, loaded model.CoinStatus) error {
	const query = `
		UPDATE coins SET
			 user_pubkey = $3
			,server_pubkey = $4
			,public_nonce = $5
			,server_public_nonce = $6
			,blinding_factor = $7
			,address = $8
			,utxo_txid = $9
			,utxo_vout = $10
			,status = $11
			,tx_withdraw = $12
			,updated_at = CURRENT_TIMESTAMP
		WHERE wallet_name = $1 AND statechain_id = $2 AND status = $13
	`

	res, err := q.ExecContext(ctx, query,
		walletName,
		coin.StatechainID,
		coin.UserPubkey,
		coin.ServerPubkey,
		coin.PublicNonce,
		coin.ServerPublicNonce,
		coin.BlindingFactor,
		coin.Address,
		coin.UtxoTxid,
		coin.UtxoVout,
		coin.Status.String(),
		coin.TxWithdraw,
		loaded.String(),
	)
	if err != nil {
		return errors.NewStorageError("failed to save coin %s of wallet %s", coin.StatechainID, walletName, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return errors.NewStorageError("failed to save coin %s of wallet %s", coin.StatechainID, walletName, err)
	}

	if rows == 0 {
		return errors.NewInvalidCoinStateError("coin %s of wallet %s is no longer %s", coin.StatechainID, walletName, loaded)
	}

	return nil
}

func insertCoin(ctx context.Context, q querier, walletName string, coin model.Coin) error {
	const query = `
		INSERT INTO coins (wallet_name, ` + coinColumns + `, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CURRENT_TIMESTAMP)
	`

	if _, err := q.ExecContext(ctx, query,
		walletName,
		coin.StatechainID,
		coin.Amount,
		coin.UserPubkey,
		coin.ServerPubkey,
		coin.PublicNonce,
		coin.ServerPublicNonce,
		coin.BlindingFactor,
		coin.Address,
		coin.UtxoTxid,
		coin.UtxoVout,
		coin.Status.String(),
		coin.TxWithdraw,
	); err != nil {
		if isUniqueViolation(err) {
			return errors.NewInvalidCoinStateError("coin %s of wallet %s already exists", coin.StatechainID, walletName, err)
		}

		return errors.NewStorageError("failed to save coin %s of wallet %s", coin.StatechainID, walletName, err)
	}

	return nil
}
