// Package withdrawal settles statechain coins on chain. It checks the coin, has the withdrawal signed,
// records it in the backup ledger before broadcasting it, and commits the coin's new status together
// with a Withdraw activity.
package withdrawal

import (
	"context"
	"time"

	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/commerceblock/mercuryclient/activity"
	"github.com/commerceblock/mercuryclient/coinstate"
	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/fee"
	"github.com/commerceblock/mercuryclient/ledger"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/commerceblock/mercuryclient/services/chain"
	"github.com/commerceblock/mercuryclient/services/signer"
	"github.com/commerceblock/mercuryclient/settings"
	walletstore "github.com/commerceblock/mercuryclient/stores/wallet"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/commerceblock/mercuryclient/util/keylock"
	"github.com/commerceblock/mercuryclient/util/tracing"
	"github.com/google/uuid"
)

type Withdrawal struct {
	logger     ulogger.Logger
	settings   *settings.Settings
	store      walletstore.Store
	ledger     *ledger.Ledger
	fees       *fee.Resolver
	signer     signer.ClientI
	chain      chain.ClientI
	activities *activity.Log
	locks      *keylock.KeyLock
	now        func() time.Time
}

func New(logger ulogger.Logger, tSettings *settings.Settings, store walletstore.Store, signerClient signer.ClientI,
	chainClient chain.ClientI, activities *activity.Log) *Withdrawal {
	initPrometheusMetrics()

	if activities == nil {
		activities = activity.New(logger, store, nil)
	}

	return &Withdrawal{
		logger:     logger,
		settings:   tSettings,
		store:      store,
		ledger:     ledger.New(logger, store),
		fees:       fee.NewResolver(logger, chainClient, tSettings.Fee.MaxFeeRate),
		signer:     signerClient,
		chain:      chainClient,
		activities: activities,
		locks:      keylock.New(),
		now:        time.Now,
	}
}

// Withdraw spends the coin statechainID of walletName to toAddress and returns the txid.
//
// Preconditions are checked in order: the wallet exists, the coin has backup history, the coin is
// in the wallet and the coin is AVAILABLE. feeRate is an explicit sat/byte rate or empty for a
// network estimate.
//
// When the latest backup transaction is a withdrawal to toAddress that never made it to the
// network, that transaction is broadcast again instead of signing a new one.
func (w *Withdrawal) Withdraw(ctx context.Context, walletName string, statechainID string, toAddress string, feeRate string) (txid string, err error) {
	attemptID := uuid.NewString()

	ctx, _, endSpan := tracing.Tracer("withdrawal").Start(ctx, "Withdraw",
		tracing.WithTag("wallet", walletName),
		tracing.WithTag("statechain_id", statechainID),
		tracing.WithTag("attempt_id", attemptID),
		tracing.WithHistogram(prometheusWithdraw),
		tracing.WithLogMessage(w.logger, "[Withdraw][%s] withdrawing %s of wallet %s to %s", attemptID, statechainID, walletName, toAddress),
	)

	defer func() {
		countError(err)
		endSpan(err)
	}()

	unlock, err := w.lock(ctx, statechainID)
	if err != nil {
		return "", err
	}
	defer unlock()

	wallet, history, coin, err := w.load(ctx, walletName, statechainID)
	if err != nil {
		return "", err
	}

	if err = coinstate.RequireAvailable(coin); err != nil {
		return "", err
	}

	if toAddress == "" {
		return "", errors.NewInvalidArgumentError("destination address is empty")
	}

	if latest := history[len(history)-1]; latest.Withdrawal {
		if latest.ToAddress != toAddress {
			return "", errors.NewInvalidCoinStateError("coin %s has a pending withdrawal to %s", statechainID, latest.ToAddress)
		}

		w.logger.Infof("[Withdraw][%s] re-broadcasting pending withdrawal tx %d of %s", attemptID, latest.TxN, statechainID)
		prometheusRebroadcasts.Inc()

		return w.broadcastAndCommit(context.WithoutCancel(ctx), wallet, coin, latest)
	}

	rate, err := w.fees.Resolve(ctx, feeRate)
	if err != nil {
		return "", err
	}

	backupCount, err := safeconversion.IntToUint32(len(history))
	if err != nil {
		return "", errors.NewInvalidSequenceError("statechain %s has too many backup transactions", statechainID, err)
	}

	signedTx, err := w.signer.SignWithdrawal(ctx, coin, toAddress, backupCount, wallet.Network(), rate)
	if err != nil {
		if !errors.Is(err, errors.ErrSigning) {
			err = errors.NewSigningError("failed to sign withdrawal of %s", statechainID, err)
		}

		return "", err
	}

	// from here on the operation runs to completion
	ctx = context.WithoutCancel(ctx)

	entry := model.NewBackupTxFromCoin(coin, signedTx, toAddress, true)
	entry.TxN = backupCount + 1

	entry, err = w.ledger.Append(ctx, statechainID, entry, true)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidSequence) || errors.Is(err, errors.ErrEmptyHistory) {
			return "", err
		}

		return "", errors.NewPersistenceError("failed to record withdrawal of %s", statechainID, err)
	}

	return w.broadcastAndCommit(ctx, wallet, coin, entry)
}

// broadcastAndCommit broadcasts a recorded withdrawal and moves the coin to WITHDRAWING. A broadcast
// failure leaves the coin AVAILABLE with the ledger entry in place. A save failure after a successful
// broadcast is returned as a reconciliation error.
func (w *Withdrawal) broadcastAndCommit(ctx context.Context, wallet *model.Wallet, coin model.Coin, entry model.BackupTx) (string, error) {
	txid, err := w.broadcast(ctx, entry)
	if err != nil {
		return "", err
	}

	return w.commit(ctx, wallet, coin, txid)
}

func (w *Withdrawal) commit(ctx context.Context, wallet *model.Wallet, coin model.Coin, txid string) (string, error) {
	next, err := coinstate.Transition(coin.WithTxWithdraw(txid), coinstate.WithdrawBroadcast)
	if err != nil {
		return "", err
	}

	act := activity.NewWithdraw(txid, coin.Amount, w.now())

	if err = w.store.SaveWallet(ctx, activity.Record(wallet.WithCoin(next), act)); err != nil {
		if errors.Is(err, errors.ErrInvalidCoinState) {
			// another client committed this coin first
			w.logger.Warnf("[Withdraw] coin %s of wallet %s changed while tx %s was broadcast: %v", coin.StatechainID, wallet.Name(), txid, err)
			return "", err
		}

		prometheusReconciliationRequired.Inc()

		w.logger.Errorf("[Withdraw] CRITICAL: withdrawal %s of %s was broadcast but wallet %s could not be saved: %v. Run 'reconcile --wallet %s --statechain-id %s' to repair the coin",
			txid, coin.StatechainID, wallet.Name(), err, wallet.Name(), coin.StatechainID)

		return "", errors.NewReconciliationError(coin.StatechainID, txid, err)
	}

	w.activities.Publish(ctx, wallet.Name(), act)

	w.logger.Infof("[Withdraw] coin %s of wallet %s is %s with tx %s", coin.StatechainID, wallet.Name(), next.Status, txid)

	return txid, nil
}

func (w *Withdrawal) broadcast(ctx context.Context, entry model.BackupTx) (string, error) {
	txid, err := w.chain.Broadcast(ctx, entry.Tx)
	if err != nil {
		prometheusBroadcastFailures.Inc()

		if !errors.Is(err, errors.ErrBroadcast) {
			err = errors.NewBroadcastError("failed to broadcast backup tx %d", entry.TxN, err)
		}

		w.logger.Warnf("[Withdraw] broadcast of backup tx %d failed, the signed transaction is kept for retry: %v", entry.TxN, err)

		return "", err
	}

	return txid, nil
}

// load reads the wallet, the coin's backup history and the coin, enforcing the first three
// withdrawal preconditions in order.
func (w *Withdrawal) load(ctx context.Context, walletName string, statechainID string) (*model.Wallet, []model.BackupTx, model.Coin, error) {
	wallet, err := w.store.GetWallet(ctx, walletName)
	if err != nil {
		return nil, nil, model.Coin{}, err
	}

	history, err := w.ledger.Load(ctx, statechainID)
	if err != nil {
		return nil, nil, model.Coin{}, err
	}

	if len(history) == 0 {
		return nil, nil, model.Coin{}, errors.NewNoBackupHistoryError("there is no backup transaction for statechain %s", statechainID)
	}

	coin, ok := wallet.Coin(statechainID)
	if !ok {
		return nil, nil, model.Coin{}, errors.NewCoinNotFoundError("there is no coin %s in wallet %s", statechainID, walletName)
	}

	return wallet, history, coin, nil
}

func (w *Withdrawal) lock(ctx context.Context, statechainID string) (func(), error) {
	unlock, err := w.locks.Lock(ctx, statechainID)
	if err != nil {
		return nil, errors.NewContextCanceledError("gave up waiting for coin %s", statechainID, err)
	}

	return unlock, nil
}

func countError(err error) {
	if err == nil {
		return
	}

	code := errors.ERR_UNKNOWN

	var tErr *errors.Error
	if errors.As(err, &tErr) {
		code = tErr.Code()
	}

	prometheusWithdrawErrors.WithLabelValues(code.Enum(), errors.GetErrorCategory(err)).Inc()
}
