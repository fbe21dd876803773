package model

// CoinStatus is the lifecycle state of a statechain coin.
type CoinStatus string

const (
	StatusInitialised          CoinStatus = "INITIALISED"
	StatusUnconfirmed          CoinStatus = "UNCONFIRMED"
	StatusAvailable            CoinStatus = "AVAILABLE"
	StatusTransferring         CoinStatus = "TRANSFERRING"
	StatusWithdrawing          CoinStatus = "WITHDRAWING"
	StatusWithdrawn            CoinStatus = "WITHDRAWN"
	StatusConfirmedTransferred CoinStatus = "CONFIRMED_TRANSFERRED"
)

// Terminal reports whether no further transition is possible from s.
func (s CoinStatus) Terminal() bool {
	return s == StatusWithdrawn || s == StatusConfirmedTransferred
}

func (s CoinStatus) String() string {
	return string(s)
}

// Coin is one statechain controlled UTXO. Coins are values: the With* methods return a modified
// copy and never touch the receiver.
type Coin struct {
	StatechainID      string     `json:"statechain_id"`
	Amount            uint64     `json:"amount"`
	UserPubkey        string     `json:"user_pubkey"`
	ServerPubkey      string     `json:"server_pubkey"`
	PublicNonce       string     `json:"public_nonce"`
	ServerPublicNonce string     `json:"server_public_nonce"`
	BlindingFactor    string     `json:"blinding_factor"`
	Address           string     `json:"address,omitempty"`
	UtxoTxid          string     `json:"utxo_txid,omitempty"`
	UtxoVout          uint32     `json:"utxo_vout"`
	Status            CoinStatus `json:"status"`
	TxWithdraw        string     `json:"tx_withdraw,omitempty"`
}

func (c Coin) WithStatus(status CoinStatus) Coin {
	c.Status = status
	return c
}

func (c Coin) WithTxWithdraw(txid string) Coin {
	c.TxWithdraw = txid
	return c
}

// HasWithdrawal reports whether a withdrawal broadcast has been recorded for the coin.
func (c Coin) HasWithdrawal() bool {
	return c.TxWithdraw != ""
}
