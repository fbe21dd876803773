package sql

import (
	"context"
	"database/sql"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
)

func (s *SQL) AppendActivity(ctx context.Context, walletName string, activity model.Activity) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		exists, err := walletExists(ctx, tx, walletName)
		if err != nil {
			return errors.NewStorageError("failed to look up wallet %s", walletName, err)
		}

		if !exists {
			return errors.NewWalletNotFoundError("wallet %s not found", walletName)
		}

		return insertActivity(ctx, tx, walletName, activity)
	})
}

func insertActivity(ctx context.Context, q querier, walletName string, activity model.Activity) error {
	const query = `INSERT INTO activities (wallet_name, utxo, amount, action, date) VALUES ($1, $2, $3, $4, $5)`

	if _, err := q.ExecContext(ctx, query,
		walletName,
		activity.Utxo,
		activity.Amount,
		string(activity.Action),
		activity.Date.UnixNano(),
	); err != nil {
		return errors.NewStorageError("failed to insert activity for wallet %s", walletName, err)
	}

	return nil
}
