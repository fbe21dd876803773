package memory

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCoin(id string, status model.CoinStatus) model.Coin {
	return model.Coin{
		StatechainID: id,
		Amount:       10000,
		UserPubkey:   "02aa",
		ServerPubkey: "03bb",
		Status:       status,
	}
}

func TestMemory_Wallets(t *testing.T) {
	ctx := context.Background()
	m := New()

	status, _, err := m.Health(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	_, err = m.GetWallet(ctx, "w1")
	require.ErrorIs(t, err, errors.ErrWalletNotFound)

	w := model.NewWallet("w1", "regtest", []model.Coin{testCoin("sc1", model.StatusAvailable)}, nil)
	require.NoError(t, m.CreateWallet(ctx, w))
	require.ErrorIs(t, m.CreateWallet(ctx, w), errors.ErrWalletExists)

	require.NoError(t, m.CreateWallet(ctx, model.NewWallet("a", "regtest", nil, nil)))

	names, err := m.ListWallets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "w1"}, names)

	loaded, err := m.GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "regtest", loaded.Network())
	assert.False(t, loaded.HasChanges())

	coin, ok := loaded.Coin("sc1")
	require.True(t, ok)
	assert.Equal(t, model.StatusAvailable, coin.Status)
}

func TestMemory_SaveWalletMergesChanges(t *testing.T) {
	ctx := context.Background()
	m := New()

	w := model.NewWallet("w1", "regtest", []model.Coin{
		testCoin("sc1", model.StatusAvailable),
		testCoin("sc2", model.StatusAvailable),
	}, nil)
	require.NoError(t, m.CreateWallet(ctx, w))

	first, err := m.GetWallet(ctx, "w1")
	require.NoError(t, err)

	second, err := m.GetWallet(ctx, "w1")
	require.NoError(t, err)

	c1, _ := first.Coin("sc1")
	c2, _ := second.Coin("sc2")

	now := time.Now().UTC()

	require.NoError(t, m.SaveWallet(ctx, first.
		WithCoin(c1.WithStatus(model.StatusWithdrawing).WithTxWithdraw("t1")).
		WithActivity(model.Activity{Utxo: "t1", Amount: 10000, Action: model.ActionWithdraw, Date: now})))

	require.NoError(t, m.SaveWallet(ctx, second.
		WithCoin(c2.WithStatus(model.StatusWithdrawing).WithTxWithdraw("t2")).
		WithActivity(model.Activity{Utxo: "t2", Amount: 10000, Action: model.ActionWithdraw, Date: now})))

	loaded, err := m.GetWallet(ctx, "w1")
	require.NoError(t, err)

	got1, _ := loaded.Coin("sc1")
	got2, _ := loaded.Coin("sc2")

	assert.Equal(t, "t1", got1.TxWithdraw)
	assert.Equal(t, "t2", got2.TxWithdraw)
	assert.Equal(t, 2, loaded.ActivityCount())

	err = m.SaveWallet(ctx, model.NewWallet("missing", "regtest", nil, nil))
	require.ErrorIs(t, err, errors.ErrWalletNotFound)
}

func TestMemory_BackupTxs(t *testing.T) {
	ctx := context.Background()
	m := New()

	txs, err := m.GetBackupTxs(ctx, "sc1")
	require.NoError(t, err)
	assert.Empty(t, txs)

	require.NoError(t, m.AppendBackupTx(ctx, "sc1", model.BackupTx{TxN: 1, Tx: "aa"}))
	require.NoError(t, m.AppendBackupTx(ctx, "sc1", model.BackupTx{TxN: 2, Tx: "bb"}))

	err = m.AppendBackupTx(ctx, "sc1", model.BackupTx{TxN: 2, Tx: "cc"})
	require.ErrorIs(t, err, errors.ErrInvalidSequence)

	err = m.AppendBackupTx(ctx, "sc1", model.BackupTx{TxN: 4, Tx: "dd"})
	require.ErrorIs(t, err, errors.ErrInvalidSequence)

	txs, err = m.GetBackupTxs(ctx, "sc1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "aa", txs[0].Tx)
	assert.Equal(t, "bb", txs[1].Tx)

	// callers cannot reach the stored slice
	txs[0].Tx = "zz"

	again, err := m.GetBackupTxs(ctx, "sc1")
	require.NoError(t, err)
	assert.Equal(t, "aa", again[0].Tx)
}

func TestMemory_Activities(t *testing.T) {
	ctx := context.Background()
	m := New()

	err := m.AppendActivity(ctx, "w1", model.Activity{Utxo: "x"})
	require.ErrorIs(t, err, errors.ErrWalletNotFound)

	_, err = m.GetActivities(ctx, "w1", 0, 10)
	require.ErrorIs(t, err, errors.ErrWalletNotFound)

	require.NoError(t, m.CreateWallet(ctx, model.NewWallet("w1", "regtest", nil, nil)))

	for _, utxo := range []string{"a", "b", "c"} {
		require.NoError(t, m.AppendActivity(ctx, "w1", model.Activity{Utxo: utxo, Action: model.ActionDeposit}))
	}

	page, err := m.GetActivities(ctx, "w1", 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a", page[0].Utxo)

	page, err = m.GetActivities(ctx, "w1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].Utxo)

	page, err = m.GetActivities(ctx, "w1", 3, 2)
	require.NoError(t, err)
	assert.Empty(t, page)

	all, err := m.GetActivities(ctx, "w1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemory_SaveWalletRejectsStaleCoin(t *testing.T) {
	ctx := context.Background()
	m := New()

	require.NoError(t, m.CreateWallet(ctx, model.NewWallet("w1", "regtest", []model.Coin{testCoin("sc1", model.StatusAvailable)}, nil)))

	first, err := m.GetWallet(ctx, "w1")
	require.NoError(t, err)

	second, err := m.GetWallet(ctx, "w1")
	require.NoError(t, err)

	withdraw := func(w *model.Wallet, txid string) *model.Wallet {
		c, _ := w.Coin("sc1")

		return w.
			WithCoin(c.WithStatus(model.StatusWithdrawing).WithTxWithdraw(txid)).
			WithActivity(model.Activity{Utxo: txid, Amount: c.Amount, Action: model.ActionWithdraw})
	}

	require.NoError(t, m.SaveWallet(ctx, withdraw(first, "t1")))
	require.ErrorIs(t, m.SaveWallet(ctx, withdraw(second, "t1")), errors.ErrInvalidCoinState)

	loaded, err := m.GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.ActivityCount())

	t.Run("added coin that already exists", func(t *testing.T) {
		w := model.NewWallet("w1", "regtest", nil, nil).WithCoin(testCoin("sc1", model.StatusAvailable))
		require.ErrorIs(t, m.SaveWallet(ctx, w), errors.ErrInvalidCoinState)

		reloaded, err := m.GetWallet(ctx, "w1")
		require.NoError(t, err)

		got, _ := reloaded.Coin("sc1")
		assert.Equal(t, model.StatusWithdrawing, got.Status)
	})
}
