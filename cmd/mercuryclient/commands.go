package main

import (
	"fmt"
	"os"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/ledger"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/commerceblock/mercuryclient/services/withdrawal"
	"github.com/urfave/cli/v2"
)

type coinOutput struct {
	StatechainID string           `json:"statechain_id"`
	Status       model.CoinStatus `json:"status"`
	TxWithdraw   string           `json:"tx_withdraw,omitempty"`
}

func withdrawalCommand(action func(c *cli.Context, r *runtime, w *withdrawal.Withdrawal) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := newRuntime(c)
		if err != nil {
			return err
		}
		defer r.Close()

		w, err := r.withdrawal()
		if err != nil {
			return err
		}

		return reconcileHint(c.String("wallet"), action(c, r, w))
	}
}

// reconcileHint points the user at the reconcile command when a withdrawal was broadcast but the
// wallet could not be saved.
func reconcileHint(walletName string, err error) error {
	data, ok := errors.IsReconciliationRequired(err)
	if !ok {
		return err
	}

	return fmt.Errorf("%w\nwithdrawal %s was broadcast; run 'mercuryclient reconcile --wallet %s --statechain-id %s' before using the coin again",
		err, data.Txid, walletName, data.StatechainID)
}

var withdrawAction = withdrawalCommand(func(c *cli.Context, r *runtime, w *withdrawal.Withdrawal) error {
	txid, err := w.Withdraw(c.Context, c.String("wallet"), c.String("statechain-id"), c.String("to"), c.String("fee-rate"))
	if err != nil {
		return err
	}

	return r.print(map[string]string{"txid": txid})
})

var broadcastAction = withdrawalCommand(func(c *cli.Context, r *runtime, w *withdrawal.Withdrawal) error {
	txid, err := w.BroadcastPending(c.Context, c.String("wallet"), c.String("statechain-id"))
	if err != nil {
		return err
	}

	return r.print(map[string]string{"txid": txid})
})

var reconcileAction = withdrawalCommand(func(c *cli.Context, r *runtime, w *withdrawal.Withdrawal) error {
	coin, err := w.Reconcile(c.Context, c.String("wallet"), c.String("statechain-id"))
	if err != nil {
		return err
	}

	return r.print(coinOutput{coin.StatechainID, coin.Status, coin.TxWithdraw})
})

var confirmAction = withdrawalCommand(func(c *cli.Context, r *runtime, w *withdrawal.Withdrawal) error {
	coin, err := w.ConfirmWithdrawal(c.Context, c.String("wallet"), c.String("statechain-id"))
	if err != nil {
		return err
	}

	return r.print(coinOutput{coin.StatechainID, coin.Status, coin.TxWithdraw})
})

func verifyBackupsAction(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer r.Close()

	statechainID := c.String("statechain-id")
	l := ledger.New(r.logger, r.store)

	if err = l.Verify(c.Context, statechainID); err != nil {
		return err
	}

	latest, err := l.Latest(c.Context, statechainID)
	if err != nil {
		return err
	}

	return r.print(map[string]interface{}{
		"statechain_id": statechainID,
		"valid":         true,
		"latest":        latest.TxN,
		"withdrawal":    latest.Withdrawal,
	})
}

func activitiesAction(c *cli.Context) error {
	switch c.String("format") {
	case "json", "csv":
	default:
		return errors.NewInvalidArgumentError("unknown output format %q, expected json or csv", c.String("format"))
	}

	r, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer r.Close()

	activities := []model.Activity{}

	for a, err := range r.activities.All(c.Context, c.String("wallet")) {
		if err != nil {
			return err
		}

		activities = append(activities, a)
	}

	if c.String("format") == "csv" {
		return writeActivitiesCSV(r.out, activities)
	}

	return r.print(activities)
}

func createWalletAction(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer r.Close()

	var (
		coins   []model.Coin
		backups map[string][]model.BackupTx
	)

	if err = readJSON(c.Path("coins"), &coins); err != nil {
		return err
	}

	if err = readJSON(c.Path("backups"), &backups); err != nil {
		return err
	}

	wallet := model.NewWallet(c.String("name"), r.settings.Network, coins, nil)

	if err = r.store.CreateWallet(c.Context, wallet); err != nil {
		return err
	}

	l := ledger.New(r.logger, r.store)

	for statechainID, entries := range backups {
		for _, entry := range entries {
			if _, err = l.Append(c.Context, statechainID, entry, false); err != nil {
				return err
			}
		}
	}

	return r.print(map[string]interface{}{
		"name":    wallet.Name(),
		"network": wallet.Network(),
		"coins":   len(coins),
	})
}

func listWalletsAction(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer r.Close()

	names, err := r.store.ListWallets(c.Context)
	if err != nil {
		return err
	}

	return r.print(names)
}

func readJSON(path string, v interface{}) error {
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return errors.NewInvalidArgumentError("failed to read %s", path, err)
	}

	if err = json.Unmarshal(b, v); err != nil {
		return errors.NewInvalidArgumentError("failed to parse %s", path, err)
	}

	return nil
}
