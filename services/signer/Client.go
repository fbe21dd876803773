package signer

import (
	"context"
	"net/http"
	"net/url"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/ledger"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/commerceblock/mercuryclient/settings"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/commerceblock/mercuryclient/util"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type withdrawalRequest struct {
	StatechainID      string `json:"statechain_id"`
	Amount            uint64 `json:"amount"`
	UserPubkey        string `json:"user_pubkey"`
	ServerPubkey      string `json:"server_pubkey"`
	PublicNonce       string `json:"public_nonce"`
	ServerPublicNonce string `json:"server_public_nonce"`
	BlindingFactor    string `json:"blinding_factor"`
	UtxoTxid          string `json:"utxo_txid,omitempty"`
	UtxoVout          uint32 `json:"utxo_vout"`
	ToAddress         string `json:"to_address"`
	QtBackupTx        uint32 `json:"qt_backup_tx"`
	IsWithdrawal      bool   `json:"is_withdrawal"`
	Network           string `json:"network"`
	FeeRate           uint64 `json:"fee_rate_sats_per_byte"`
}

type withdrawalResponse struct {
	Tx string `json:"tx"`
}

type Client struct {
	logger   ulogger.Logger
	settings *settings.Settings
	baseURL  *url.URL
}

func NewClient(logger ulogger.Logger, tSettings *settings.Settings) (*Client, error) {
	if tSettings.Signer.URL == nil {
		return nil, errors.NewConfigurationError("signer_url is not set")
	}

	return &Client{
		logger:   logger.New("signer"),
		settings: tSettings,
		baseURL:  tSettings.Signer.URL,
	}, nil
}

func (c *Client) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	if checkLiveness {
		return http.StatusOK, "OK", nil
	}

	if _, err := util.DoHTTPRequest(ctx, c.baseURL.JoinPath("health").String()); err != nil {
		return http.StatusServiceUnavailable, "signer unreachable", err
	}

	return http.StatusOK, "OK", nil
}

func (c *Client) SignWithdrawal(ctx context.Context, coin model.Coin, toAddress string, backupCount uint32, network string, feeRate uint64) (string, error) {
	body, err := json.Marshal(withdrawalRequest{
		StatechainID:      coin.StatechainID,
		Amount:            coin.Amount,
		UserPubkey:        coin.UserPubkey,
		ServerPubkey:      coin.ServerPubkey,
		PublicNonce:       coin.PublicNonce,
		ServerPublicNonce: coin.ServerPublicNonce,
		BlindingFactor:    coin.BlindingFactor,
		UtxoTxid:          coin.UtxoTxid,
		UtxoVout:          coin.UtxoVout,
		ToAddress:         toAddress,
		QtBackupTx:        backupCount,
		IsWithdrawal:      true,
		Network:           network,
		FeeRate:           feeRate,
	})
	if err != nil {
		return "", errors.NewSigningError("failed to encode withdrawal request for %s", coin.StatechainID, err)
	}

	resp, err := util.DoHTTPRequest(ctx, c.baseURL.JoinPath("sign", "withdrawal").String(), body)
	if err != nil {
		return "", errors.NewSigningError("signer rejected withdrawal of %s", coin.StatechainID, err)
	}

	var out withdrawalResponse
	if err = json.Unmarshal(resp, &out); err != nil {
		return "", errors.NewSigningError("malformed signer response for %s", coin.StatechainID, err)
	}

	if _, err = ledger.DecodeTx(out.Tx); err != nil {
		return "", errors.NewSigningError("signer returned an invalid transaction for %s", coin.StatechainID, err)
	}

	c.logger.Debugf("[SignWithdrawal] signed withdrawal of %s to %s (backup txs %d, %d sat/byte)", coin.StatechainID, toAddress, backupCount, feeRate)

	return out.Tx, nil
}
