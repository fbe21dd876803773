package withdrawal

import (
	"context"

	"github.com/commerceblock/mercuryclient/activity"
	"github.com/commerceblock/mercuryclient/coinstate"
	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/ledger"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/commerceblock/mercuryclient/util/retry"
	"github.com/commerceblock/mercuryclient/util/tracing"
)

// BroadcastPending pushes the coin's recorded withdrawal to the network again.
//
// For an AVAILABLE coin whose latest backup transaction is an un-broadcast withdrawal the broadcast
// is retried with backoff and, once it succeeds, the coin moves to WITHDRAWING. For a WITHDRAWING
// coin the same transaction is re-sent without any state change.
func (w *Withdrawal) BroadcastPending(ctx context.Context, walletName string, statechainID string) (txid string, err error) {
	ctx, _, endSpan := tracing.Tracer("withdrawal").Start(ctx, "BroadcastPending",
		tracing.WithTag("wallet", walletName),
		tracing.WithTag("statechain_id", statechainID),
		tracing.WithHistogram(prometheusBroadcastPending),
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

	latest := history[len(history)-1]
	if !latest.Withdrawal {
		return "", errors.NewTxNotFoundError("coin %s has no recorded withdrawal", statechainID)
	}

	broadcastWithRetry := func() (string, error) {
		return retry.Retry(ctx, w.logger, func() (string, error) {
			return w.broadcast(ctx, latest)
		},
			retry.WithRetryCount(w.settings.Withdrawal.BroadcastRetries),
			retry.WithBackoffMultiplier(2),
			retry.WithBackoffDurationType(w.settings.Withdrawal.BroadcastBackoff),
			retry.WithMessage("[BroadcastPending] broadcast of "+statechainID+" failed"),
			retry.WithShouldRetry(errors.IsRetryableError),
		)
	}

	switch coin.Status {
	case model.StatusWithdrawing:
		return broadcastWithRetry()

	case model.StatusAvailable:
		if txid, err = broadcastWithRetry(); err != nil {
			return "", err
		}

		prometheusRebroadcasts.Inc()

		return w.commit(context.WithoutCancel(ctx), wallet, coin, txid)
	}

	return "", errors.NewInvalidCoinStateError("coin %s is %s, nothing to broadcast", statechainID, coin.Status)
}

// Reconcile repairs a coin whose withdrawal was broadcast but whose wallet could not be saved. The
// recorded withdrawal's txid is looked up on chain; when the node knows it the coin is moved to
// WITHDRAWING (or WITHDRAWN once it has enough confirmations) and the missing Withdraw activity is
// added. The repaired coin is returned.
func (w *Withdrawal) Reconcile(ctx context.Context, walletName string, statechainID string) (coin model.Coin, err error) {
	ctx, _, endSpan := tracing.Tracer("withdrawal").Start(ctx, "Reconcile",
		tracing.WithTag("wallet", walletName),
		tracing.WithTag("statechain_id", statechainID),
		tracing.WithHistogram(prometheusReconcile),
	)

	defer func() {
		countError(err)
		endSpan(err)
	}()

	unlock, err := w.lock(ctx, statechainID)
	if err != nil {
		return model.Coin{}, err
	}
	defer unlock()

	wallet, history, coin, err := w.load(ctx, walletName, statechainID)
	if err != nil {
		return model.Coin{}, err
	}

	latest := history[len(history)-1]
	if !latest.Withdrawal {
		return coin, errors.NewTxNotFoundError("coin %s has no recorded withdrawal", statechainID)
	}

	txid, err := ledger.Txid(latest.Tx)
	if err != nil {
		return coin, err
	}

	confirmations, found, err := w.chain.GetConfirmations(ctx, txid)
	if err != nil {
		return coin, err
	}

	if !found {
		return coin, errors.NewTxNotFoundError("withdrawal %s of %s is not known to the node, use broadcast-withdrawal", txid, statechainID)
	}

	next := coin

	switch coin.Status {
	case model.StatusAvailable:
		if next, err = coinstate.Transition(coin.WithTxWithdraw(txid), coinstate.WithdrawBroadcast); err != nil {
			return coin, err
		}

	case model.StatusWithdrawing, model.StatusWithdrawn:
		next = coin.WithTxWithdraw(txid)

	default:
		return coin, errors.NewInvalidCoinStateError("coin %s is %s and cannot be reconciled against a withdrawal", statechainID, coin.Status)
	}

	if next.Status == model.StatusWithdrawing && confirmations >= w.settings.Withdrawal.ConfirmationTarget {
		if next, err = coinstate.Transition(next, coinstate.WithdrawConfirmed); err != nil {
			return coin, err
		}
	}

	updated := wallet
	if next != coin {
		updated = updated.WithCoin(next)
	}

	var added []model.Activity

	if !hasWithdrawActivity(wallet, txid) {
		act := activity.NewWithdraw(txid, coin.Amount, w.now())
		updated = activity.Record(updated, act)
		added = append(added, act)
	}

	if !updated.HasChanges() {
		w.logger.Infof("[Reconcile] coin %s of wallet %s is consistent (%s, tx %s)", statechainID, walletName, coin.Status, txid)
		return coin, nil
	}

	if err = w.store.SaveWallet(ctx, updated); err != nil {
		if errors.Is(err, errors.ErrInvalidCoinState) {
			return coin, err
		}

		return coin, errors.NewReconciliationError(statechainID, txid, err)
	}

	w.activities.Publish(ctx, walletName, added...)

	w.logger.Infof("[Reconcile] coin %s of wallet %s repaired: %s -> %s (tx %s, %d confirmations)", statechainID, walletName, coin.Status, next.Status, txid, confirmations)

	return next, nil
}

// ConfirmWithdrawal moves a WITHDRAWING coin to WITHDRAWN once its withdrawal has reached the
// configured confirmation target. Below the target the coin is returned unchanged.
func (w *Withdrawal) ConfirmWithdrawal(ctx context.Context, walletName string, statechainID string) (coin model.Coin, err error) {
	ctx, _, endSpan := tracing.Tracer("withdrawal").Start(ctx, "ConfirmWithdrawal",
		tracing.WithTag("wallet", walletName),
		tracing.WithTag("statechain_id", statechainID),
		tracing.WithHistogram(prometheusConfirmWithdrawal),
	)

	defer func() {
		countError(err)
		endSpan(err)
	}()

	unlock, err := w.lock(ctx, statechainID)
	if err != nil {
		return model.Coin{}, err
	}
	defer unlock()

	wallet, err := w.store.GetWallet(ctx, walletName)
	if err != nil {
		return model.Coin{}, err
	}

	coin, ok := wallet.Coin(statechainID)
	if !ok {
		return model.Coin{}, errors.NewCoinNotFoundError("there is no coin %s in wallet %s", statechainID, walletName)
	}

	if !coinstate.Can(coin, coinstate.WithdrawConfirmed) || !coin.HasWithdrawal() {
		return coin, errors.NewInvalidCoinStateError("coin %s is %s, expected %s", statechainID, coin.Status, model.StatusWithdrawing)
	}

	confirmations, found, err := w.chain.GetConfirmations(ctx, coin.TxWithdraw)
	if err != nil {
		return coin, err
	}

	if !found || confirmations < w.settings.Withdrawal.ConfirmationTarget {
		w.logger.Infof("[ConfirmWithdrawal] %s has %d of %d confirmations", coin.TxWithdraw, confirmations, w.settings.Withdrawal.ConfirmationTarget)
		return coin, nil
	}

	next, err := coinstate.Transition(coin, coinstate.WithdrawConfirmed)
	if err != nil {
		return coin, err
	}

	if err = w.store.SaveWallet(ctx, wallet.WithCoin(next)); err != nil {
		if errors.Is(err, errors.ErrInvalidCoinState) {
			return coin, err
		}

		return coin, errors.NewPersistenceError("failed to save confirmed withdrawal of %s", statechainID, err)
	}

	return next, nil
}

func hasWithdrawActivity(wallet *model.Wallet, txid string) bool {
	for _, a := range wallet.Activities() {
		if a.Action == model.ActionWithdraw && a.Utxo == txid {
			return true
		}
	}

	return false
}
