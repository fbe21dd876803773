package sql

import (
	"context"
	"database/sql"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
)

func (s *SQL) AppendBackupTx(ctx context.Context, statechainID string, backupTx model.BackupTx) error {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var count uint32

		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM backup_txs WHERE statechain_id = $1`, statechainID).Scan(&count); err != nil {
			return errors.NewStorageError("failed to count backup txs of statechain %s", statechainID, err)
		}

		if backupTx.TxN != count+1 {
			return errors.NewInvalidSequenceError("backup tx %d for statechain %s does not follow %d", backupTx.TxN, statechainID, count)
		}

		const query = `
			INSERT INTO backup_txs (statechain_id, tx_n, tx, client_public_nonce, server_public_nonce,
				client_public_key, server_public_key, blinding_factor, to_address, withdrawal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`

		if _, err := tx.ExecContext(ctx, query,
			statechainID,
			backupTx.TxN,
			backupTx.Tx,
			backupTx.ClientPublicNonce,
			backupTx.ServerPublicNonce,
			backupTx.ClientPublicKey,
			backupTx.ServerPublicKey,
			backupTx.BlindingFactor,
			backupTx.ToAddress,
			backupTx.Withdrawal,
		); err != nil {
			if isUniqueViolation(err) {
				return errors.NewInvalidSequenceError("backup tx %d for statechain %s already exists", backupTx.TxN, statechainID, err)
			}

			return errors.NewStorageError("failed to insert backup tx %d of statechain %s", backupTx.TxN, statechainID, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debugf("[AppendBackupTx] statechain %s tx_n %d withdrawal=%t", statechainID, backupTx.TxN, backupTx.Withdrawal)

	return nil
}
