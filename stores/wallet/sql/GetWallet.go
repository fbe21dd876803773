package sql

import (
	"context"
	"database/sql"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
)

const coinColumns = `statechain_id, amount, user_pubkey, server_pubkey, public_nonce, server_public_nonce,
	blinding_factor, address, utxo_txid, utxo_vout, status, tx_withdraw`

func (s *SQL) GetWallet(ctx context.Context, name string) (*model.Wallet, error) {
	var network string

	err := s.db.QueryRowContext(ctx, `SELECT network FROM wallets WHERE name = $1`, name).Scan(&network)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewWalletNotFoundError("wallet %s not found", name)
		}

		return nil, errors.NewStorageError("failed to get wallet %s", name, err)
	}

	coins, err := s.getCoins(ctx, name)
	if err != nil {
		return nil, err
	}

	activities, err := s.queryActivities(ctx, name, 0, 0)
	if err != nil {
		return nil, err
	}

	return model.NewWallet(name, network, coins, activities), nil
}

func (s *SQL) getCoins(ctx context.Context, walletName string) ([]model.Coin, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+coinColumns+` FROM coins WHERE wallet_name = $1 ORDER BY statechain_id`, walletName)
	if err != nil {
		return nil, errors.NewStorageError("failed to get coins of wallet %s", walletName, err)
	}

	defer func() {
		_ = rows.Close()
	}()

	coins := make([]model.Coin, 0)

	for rows.Next() {
		var (
			coin   model.Coin
			status string
		)

		if err = rows.Scan(
			&coin.StatechainID,
			&coin.Amount,
			&coin.UserPubkey,
			&coin.ServerPubkey,
			&coin.PublicNonce,
			&coin.ServerPublicNonce,
			&coin.BlindingFactor,
			&coin.Address,
			&coin.UtxoTxid,
			&coin.UtxoVout,
			&status,
			&coin.TxWithdraw,
		); err != nil {
			return nil, errors.NewStorageError("failed to scan coin of wallet %s", walletName, err)
		}

		coin.Status = model.CoinStatus(status)
		coins = append(coins, coin)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to read coins of wallet %s", walletName, err)
	}

	return coins, nil
}
