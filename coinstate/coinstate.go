// Package coinstate is the coin status state machine. It decides which lifecycle events are legal
// for a coin and produces the coin's next snapshot.
package coinstate

import (
	"context"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/looplab/fsm"
)

type Event string

const (
	DepositSeen       Event = "DEPOSIT_SEEN"
	DepositConfirmed  Event = "DEPOSIT_CONFIRMED"
	WithdrawBroadcast Event = "WITHDRAW_BROADCAST"
	WithdrawConfirmed Event = "WITHDRAW_CONFIRMED"
	TransferStart     Event = "TRANSFER_START"
	TransferConfirmed Event = "TRANSFER_CONFIRMED"
	TransferAbort     Event = "TRANSFER_ABORT"
)

func (e Event) String() string {
	return string(e)
}

var events = fsm.Events{
	{
		Name: DepositSeen.String(),
		Src:  []string{model.StatusInitialised.String()},
		Dst:  model.StatusUnconfirmed.String(),
	},
	{
		Name: DepositConfirmed.String(),
		Src:  []string{model.StatusUnconfirmed.String()},
		Dst:  model.StatusAvailable.String(),
	},
	{
		Name: WithdrawBroadcast.String(),
		Src:  []string{model.StatusAvailable.String()},
		Dst:  model.StatusWithdrawing.String(),
	},
	{
		Name: WithdrawConfirmed.String(),
		Src:  []string{model.StatusWithdrawing.String()},
		Dst:  model.StatusWithdrawn.String(),
	},
	{
		Name: TransferStart.String(),
		Src:  []string{model.StatusAvailable.String()},
		Dst:  model.StatusTransferring.String(),
	},
	{
		Name: TransferConfirmed.String(),
		Src:  []string{model.StatusTransferring.String()},
		Dst:  model.StatusConfirmedTransferred.String(),
	},
	{
		Name: TransferAbort.String(),
		Src:  []string{model.StatusTransferring.String()},
		Dst:  model.StatusAvailable.String(),
	},
}

// NewFiniteStateMachine returns a state machine positioned at status.
func NewFiniteStateMachine(status model.CoinStatus, opts ...func(*fsm.FSM)) *fsm.FSM {
	finiteStateMachine := fsm.NewFSM(status.String(), events, fsm.Callbacks{})

	for _, opt := range opts {
		opt(finiteStateMachine)
	}

	return finiteStateMachine
}

// Transition applies event to coin and returns the resulting snapshot. An illegal event yields an
// InvalidCoinStateError and the zero Coin; the input coin is never modified.
func Transition(coin model.Coin, event Event) (model.Coin, error) {
	f := NewFiniteStateMachine(coin.Status)

	if err := f.Event(context.Background(), event.String()); err != nil {
		return model.Coin{}, errors.NewInvalidCoinStateError("coin %s cannot handle %s in state %s", coin.StatechainID, event, coin.Status, err)
	}

	return coin.WithStatus(model.CoinStatus(f.Current())), nil
}

// Can reports whether event is legal for the coin's current status.
func Can(coin model.Coin, event Event) bool {
	return NewFiniteStateMachine(coin.Status).Can(event.String())
}

// RequireAvailable fails with InvalidCoinStateError unless the coin is AVAILABLE.
func RequireAvailable(coin model.Coin) error {
	if coin.Status != model.StatusAvailable {
		return errors.NewInvalidCoinStateError("coin %s is %s, expected %s", coin.StatechainID, coin.Status, model.StatusAvailable)
	}

	return nil
}
