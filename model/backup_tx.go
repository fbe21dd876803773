package model

// BackupTx is one entry in a coin's custody chain: a signed transaction together with the signing
// material that produced it.
type BackupTx struct {
	TxN               uint32 `json:"tx_n"`
	Tx                string `json:"tx"`
	ClientPublicNonce string `json:"client_public_nonce"`
	ServerPublicNonce string `json:"server_public_nonce"`
	ClientPublicKey   string `json:"client_public_key"`
	ServerPublicKey   string `json:"server_public_key"`
	BlindingFactor    string `json:"blinding_factor"`
	ToAddress         string `json:"to_address,omitempty"`
	// Withdrawal marks the final, non chainable step that spends the coin on chain.
	Withdrawal bool `json:"withdrawal"`
}

// NewBackupTxFromCoin snapshots the coin's current signing material around a signed transaction.
// TxN is left for the ledger to assign.
func NewBackupTxFromCoin(coin Coin, signedTx string, toAddress string, withdrawal bool) BackupTx {
	return BackupTx{
		Tx:                signedTx,
		ClientPublicNonce: coin.PublicNonce,
		ServerPublicNonce: coin.ServerPublicNonce,
		ClientPublicKey:   coin.UserPubkey,
		ServerPublicKey:   coin.ServerPubkey,
		BlindingFactor:    coin.BlindingFactor,
		ToAddress:         toAddress,
		Withdrawal:        withdrawal,
	}
}
