package sql

import (
	"context"
	"database/sql"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
)

func (s *SQL) CreateWallet(ctx context.Context, wallet *model.Wallet) error {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO wallets (name, network) VALUES ($1, $2)`, wallet.Name(), wallet.Network()); err != nil {
			if isUniqueViolation(err) {
				return errors.NewWalletExistsError("wallet %s already exists", wallet.Name())
			}

			return errors.NewStorageError("failed to insert wallet %s", wallet.Name(), err)
		}

		for _, coin := range wallet.Coins() {
			if err := insertCoin(ctx, tx, wallet.Name(), coin); err != nil {
				return err
			}
		}

		for _, activity := range wallet.Activities() {
			if err := insertActivity(ctx, tx, wallet.Name(), activity); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Infof("[CreateWallet] created wallet %s on %s", wallet.Name(), wallet.Network())

	return nil
}
