package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/ledger"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/commerceblock/mercuryclient/settings"
	"github.com/commerceblock/mercuryclient/stores/wallet/memory"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/commerceblock/mercuryclient/util/health"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mainnetAddress = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"
	testnetAddress = "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx"
)

type withdrawCall struct {
	walletName, statechainID, toAddress, feeRate string
}

type fakeWithdrawer struct {
	calls []withdrawCall
	txid  string
	coin  model.Coin
	err   error
}

func (f *fakeWithdrawer) Withdraw(_ context.Context, walletName string, statechainID string, toAddress string, feeRate string) (string, error) {
	f.calls = append(f.calls, withdrawCall{walletName, statechainID, toAddress, feeRate})
	return f.txid, f.err
}

func (f *fakeWithdrawer) BroadcastPending(_ context.Context, walletName string, statechainID string) (string, error) {
	f.calls = append(f.calls, withdrawCall{walletName: walletName, statechainID: statechainID})
	return f.txid, f.err
}

func (f *fakeWithdrawer) Reconcile(_ context.Context, walletName string, statechainID string) (model.Coin, error) {
	f.calls = append(f.calls, withdrawCall{walletName: walletName, statechainID: statechainID})
	return f.coin, f.err
}

func (f *fakeWithdrawer) ConfirmWithdrawal(_ context.Context, walletName string, statechainID string) (model.Coin, error) {
	f.calls = append(f.calls, withdrawCall{walletName: walletName, statechainID: statechainID})
	return f.coin, f.err
}

func backupTx(t *testing.T, txN uint32, prev wire.OutPoint) model.BackupTx {
	t.Helper()

	msgTx := wire.NewMsgTx(2)
	msgTx.AddTxIn(wire.NewTxIn(&prev, nil, nil))
	msgTx.AddTxOut(wire.NewTxOut(49000, []byte{0x00, 0x14}))
	msgTx.LockTime = txN

	txHex, err := ledger.EncodeTx(msgTx)
	require.NoError(t, err)

	return model.BackupTx{TxN: txN, Tx: txHex}
}

func newTestServer(t *testing.T, checks ...health.Check) (*Server, *memory.Memory, *fakeWithdrawer) {
	ctx := context.Background()
	store := memory.New()

	coin := model.Coin{StatechainID: "sc1", Amount: 50000, Status: model.StatusAvailable}
	activities := []model.Activity{
		{Utxo: "deposit1", Amount: 50000, Action: model.ActionDeposit, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	require.NoError(t, store.CreateWallet(ctx, model.NewWallet("MyWallet", "mainnet", []model.Coin{coin}, activities)))

	tx0 := wire.OutPoint{Hash: chainhash.DoubleHashH([]byte("deposit")), Index: 1}
	require.NoError(t, store.AppendBackupTx(ctx, "sc1", backupTx(t, 1, tx0)))
	require.NoError(t, store.AppendBackupTx(ctx, "sc1", backupTx(t, 2, tx0)))

	withdrawer := &fakeWithdrawer{txid: "aa11"}

	s := New(ulogger.TestLogger{}, &settings.Settings{}, store, withdrawer, nil, checks...)
	require.NoError(t, s.Init(ctx))

	return s, store, withdrawer
}

func do(s *Server, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestWithdraw(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s, _, w := newTestServer(t)

		rec := do(s, http.MethodPost, "/withdraw", `{"walletName":"MyWallet","statechainId":"sc1","toAddress":"`+mainnetAddress+`","feeRate":"5"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, "aa11", decode[txidResponse](t, rec).Txid)
		require.Len(t, w.calls, 1)
		assert.Equal(t, withdrawCall{"MyWallet", "sc1", mainnetAddress, "5"}, w.calls[0])
	})

	t.Run("wrong network", func(t *testing.T) {
		s, _, w := newTestServer(t)

		rec := do(s, http.MethodPost, "/withdraw", `{"walletName":"MyWallet","statechainId":"sc1","toAddress":"`+testnetAddress+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_ARGUMENT", decode[errorResponse](t, rec).Code)
		assert.Empty(t, w.calls)
	})

	t.Run("placeholder address", func(t *testing.T) {
		s, _, w := newTestServer(t)

		rec := do(s, http.MethodPost, "/withdraw", `{"walletName":"MyWallet","statechainId":"sc1","toAddress":"bc1q..."}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, w.calls)
	})

	t.Run("missing fields", func(t *testing.T) {
		s, _, _ := newTestServer(t)

		rec := do(s, http.MethodPost, "/withdraw", `{"walletName":"MyWallet"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		s, _, w := newTestServer(t)

		rec := do(s, http.MethodPost, "/withdraw", `{"walletName":"Other","statechainId":"sc1","toAddress":"`+mainnetAddress+`"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "WALLET_NOT_FOUND", decode[errorResponse](t, rec).Code)
		assert.Empty(t, w.calls)
	})
}

func TestWithdraw_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no history", errors.NewNoBackupHistoryError("none"), http.StatusNotFound},
		{"coin not found", errors.NewCoinNotFoundError("none"), http.StatusNotFound},
		{"invalid state", errors.NewInvalidCoinStateError("WITHDRAWN"), http.StatusConflict},
		{"invalid sequence", errors.NewInvalidSequenceError("gap"), http.StatusConflict},
		{"invalid fee", errors.NewInvalidFeeRateError("abc"), http.StatusBadRequest},
		{"signing wraps not found", errors.NewSigningError("oracle", errors.NewNotFoundError("404")), http.StatusBadGateway},
		{"broadcast", errors.NewBroadcastError("rejected"), http.StatusBadGateway},
		{"fee estimation", errors.NewFeeEstimationError("down"), http.StatusBadGateway},
		{"persistence", errors.NewPersistenceError("disk"), http.StatusInternalServerError},
		{"plain error", context.Canceled, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, w := newTestServer(t)
			w.err = tt.err

			rec := do(s, http.MethodPost, "/withdraw", `{"walletName":"MyWallet","statechainId":"sc1","toAddress":"`+mainnetAddress+`"}`)
			assert.Equal(t, tt.status, rec.Code)

			resp := decode[errorResponse](t, rec)
			assert.Equal(t, tt.status, resp.Status)
			assert.Nil(t, resp.Reconcile)
		})
	}
}

func TestWithdraw_ReconciliationRequired(t *testing.T) {
	s, _, w := newTestServer(t)
	w.err = errors.NewReconciliationError("sc1", "beef", errors.NewStorageError("disk full"))

	rec := do(s, http.MethodPost, "/withdraw", `{"walletName":"MyWallet","statechainId":"sc1","toAddress":"`+mainnetAddress+`"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "PERSISTENCE", resp.Code)
	require.NotNil(t, resp.Reconcile)
	assert.Equal(t, "sc1", resp.Reconcile.StatechainID)
	assert.Equal(t, "beef", resp.Reconcile.Txid)
}

func TestCoinOperations(t *testing.T) {
	t.Run("broadcast", func(t *testing.T) {
		s, _, w := newTestServer(t)

		rec := do(s, http.MethodPost, "/withdraw/broadcast", `{"walletName":"MyWallet","statechainId":"sc1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "aa11", decode[txidResponse](t, rec).Txid)
		assert.Len(t, w.calls, 1)
	})

	t.Run("reconcile", func(t *testing.T) {
		s, _, w := newTestServer(t)
		w.coin = model.Coin{StatechainID: "sc1", Status: model.StatusWithdrawing, TxWithdraw: "aa11"}

		rec := do(s, http.MethodPost, "/withdraw/reconcile", `{"walletName":"MyWallet","statechainId":"sc1"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[coinResponse](t, rec)
		assert.Equal(t, model.StatusWithdrawing, resp.Status)
		assert.Equal(t, "aa11", resp.TxWithdraw)
	})

	t.Run("confirm", func(t *testing.T) {
		s, _, w := newTestServer(t)
		w.coin = model.Coin{StatechainID: "sc1", Status: model.StatusWithdrawn, TxWithdraw: "aa11"}

		rec := do(s, http.MethodPost, "/withdraw/confirm", `{"walletName":"MyWallet","statechainId":"sc1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.StatusWithdrawn, decode[coinResponse](t, rec).Status)
	})

	t.Run("missing statechain id", func(t *testing.T) {
		s, _, w := newTestServer(t)

		rec := do(s, http.MethodPost, "/withdraw/reconcile", `{"walletName":"MyWallet"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, w.calls)
	})
}

func TestGetActivities(t *testing.T) {
	s, store, _ := newTestServer(t)

	require.NoError(t, store.AppendActivity(context.Background(), "MyWallet", model.Activity{
		Utxo: "aa11", Amount: 50000, Action: model.ActionWithdraw, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}))

	rec := do(s, http.MethodGet, "/wallets/MyWallet/activities", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[activitiesResponse](t, rec)
	require.Len(t, resp.Activities, 2)
	assert.Equal(t, model.ActionDeposit, resp.Activities[0].Action)
	assert.Equal(t, model.ActionWithdraw, resp.Activities[1].Action)

	rec = do(s, http.MethodGet, "/wallets/Other/activities", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerifyBackups(t *testing.T) {
	s, store, _ := newTestServer(t)

	rec := do(s, http.MethodGet, "/backups/sc1/verify", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[verifyResponse](t, rec)
	assert.True(t, resp.Valid)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, uint32(2), resp.Latest)

	t.Run("unknown coin", func(t *testing.T) {
		rec := do(s, http.MethodGet, "/backups/nope/verify", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign outpoint", func(t *testing.T) {
		other := wire.OutPoint{Hash: chainhash.DoubleHashH([]byte("other")), Index: 0}
		require.NoError(t, store.AppendBackupTx(context.Background(), "sc1", backupTx(t, 3, other)))

		rec := do(s, http.MethodGet, "/backups/sc1/verify", "")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[verifyResponse](t, rec)
		assert.False(t, resp.Valid)
		assert.Equal(t, 3, resp.Count)
		assert.Contains(t, resp.Reason, "does not spend")
	})
}

func TestHealth(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		s, _, _ := newTestServer(t)

		rec := do(s, http.MethodGet, "/health/liveness", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alive")
	})

	t.Run("readiness", func(t *testing.T) {
		s, _, _ := newTestServer(t)

		rec := do(s, http.MethodGet, "/health/readiness", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "WalletStore")
	})

	t.Run("failing dependency", func(t *testing.T) {
		s, _, _ := newTestServer(t, health.Check{
			Name: "Signer",
			Check: func(context.Context, bool) (int, string, error) {
				return http.StatusServiceUnavailable, "down", errors.NewServiceUnavailableError("signer down")
			},
		})

		rec := do(s, http.MethodGet, "/health/readiness", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "Signer")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	_ = do(s, http.MethodGet, "/wallets/MyWallet/activities", "")

	rec := do(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mercury_api_requests")
}

func TestErrorMetrics(t *testing.T) {
	s, _, _ := newTestServer(t)

	counter := prometheusAPIErrors.WithLabelValues("/withdraw", "WALLET_NOT_FOUND", "wallet")
	before := testutil.ToFloat64(counter)

	rec := do(s, http.MethodPost, "/withdraw", `{"walletName":"Other","statechainId":"sc1","toAddress":"`+mainnetAddress+`"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0)

	rec = do(s, http.MethodGet, "/metrics", "")
	assert.Contains(t, rec.Body.String(), `category="wallet"`)
}

func hasRoute(s *Server, method string, path string) bool {
	for _, r := range s.e.Routes() {
		if r.Method == method && r.Path == path {
			return true
		}
	}

	return false
}

func TestProfilerRoute(t *testing.T) {
	s, _, _ := newTestServer(t)
	assert.False(t, hasRoute(s, http.MethodGet, "/debug/fgprof"))

	s.settings = &settings.Settings{API: settings.APISettings{Profiler: true}}
	require.NoError(t, s.Init(context.Background()))
	assert.True(t, hasRoute(s, http.MethodGet, "/debug/fgprof"))
}
