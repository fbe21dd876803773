package model

import "time"

type ActivityAction string

const (
	ActionDeposit  ActivityAction = "Deposit"
	ActionTransfer ActivityAction = "Transfer"
	ActionReceive  ActivityAction = "Receive"
	ActionWithdraw ActivityAction = "Withdraw"
)

// Activity is an audit record shown in the wallet history.
type Activity struct {
	Utxo   string         `json:"utxo"`
	Amount uint64         `json:"amount"`
	Action ActivityAction `json:"action"`
	Date   time.Time      `json:"date"`
}
