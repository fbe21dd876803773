package coinstate

import (
	"testing"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []model.CoinStatus{
	model.StatusInitialised,
	model.StatusUnconfirmed,
	model.StatusAvailable,
	model.StatusTransferring,
	model.StatusWithdrawing,
	model.StatusWithdrawn,
	model.StatusConfirmedTransferred,
}

func TestTransition(t *testing.T) {
	tests := []struct {
		from  model.CoinStatus
		event Event
		to    model.CoinStatus
	}{
		{model.StatusInitialised, DepositSeen, model.StatusUnconfirmed},
		{model.StatusUnconfirmed, DepositConfirmed, model.StatusAvailable},
		{model.StatusAvailable, WithdrawBroadcast, model.StatusWithdrawing},
		{model.StatusWithdrawing, WithdrawConfirmed, model.StatusWithdrawn},
		{model.StatusAvailable, TransferStart, model.StatusTransferring},
		{model.StatusTransferring, TransferConfirmed, model.StatusConfirmedTransferred},
		{model.StatusTransferring, TransferAbort, model.StatusAvailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+tt.event.String(), func(t *testing.T) {
			coin := model.Coin{StatechainID: "sc1", Amount: 1000, Status: tt.from}

			next, err := Transition(coin, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.to, next.Status)
			assert.Equal(t, tt.from, coin.Status)
			assert.Equal(t, coin.Amount, next.Amount)
		})
	}
}

func TestWithdrawBroadcastOnlyFromAvailable(t *testing.T) {
	for _, status := range allStatuses {
		if status == model.StatusAvailable {
			continue
		}

		t.Run(string(status), func(t *testing.T) {
			coin := model.Coin{StatechainID: "sc1", Status: status}

			_, err := Transition(coin, WithdrawBroadcast)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidCoinState))
			assert.Equal(t, status, coin.Status)
			assert.False(t, Can(coin, WithdrawBroadcast))
		})
	}
}

func TestTerminalStatesHaveNoTransitions(t *testing.T) {
	events := []Event{DepositSeen, DepositConfirmed, WithdrawBroadcast, WithdrawConfirmed, TransferStart, TransferConfirmed, TransferAbort}

	for _, status := range []model.CoinStatus{model.StatusWithdrawn, model.StatusConfirmedTransferred} {
		for _, e := range events {
			assert.False(t, Can(model.Coin{Status: status}, e), "%s should not accept %s", status, e)
		}
	}
}

func TestRequireAvailable(t *testing.T) {
	for _, status := range allStatuses {
		err := RequireAvailable(model.Coin{StatechainID: "sc1", Status: status})
		if status == model.StatusAvailable {
			assert.NoError(t, err)
			continue
		}

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidCoinState), status)
	}
}
