package sql

import (
	"context"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
)

func (s *SQL) GetBackupTxs(ctx context.Context, statechainID string) ([]model.BackupTx, error) {
	const query = `
		SELECT tx_n, tx, client_public_nonce, server_public_nonce, client_public_key, server_public_key,
			blinding_factor, to_address, withdrawal
		FROM backup_txs
		WHERE statechain_id = $1
		ORDER BY tx_n ASC
	`

	rows, err := s.db.QueryContext(ctx, query, statechainID)
	if err != nil {
		return nil, errors.NewStorageError("failed to get backup txs of statechain %s", statechainID, err)
	}

	defer func() {
		_ = rows.Close()
	}()

	txs := make([]model.BackupTx, 0)

	for rows.Next() {
		var tx model.BackupTx

		if err = rows.Scan(
			&tx.TxN,
			&tx.Tx,
			&tx.ClientPublicNonce,
			&tx.ServerPublicNonce,
			&tx.ClientPublicKey,
			&tx.ServerPublicKey,
			&tx.BlindingFactor,
			&tx.ToAddress,
			&tx.Withdrawal,
		); err != nil {
			return nil, errors.NewStorageError("failed to scan backup tx of statechain %s", statechainID, err)
		}

		txs = append(txs, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to read backup txs of statechain %s", statechainID, err)
	}

	return txs, nil
}
