package chain

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/ledger"
	"github.com/commerceblock/mercuryclient/settings"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/commerceblock/mercuryclient/util"
	"github.com/commerceblock/mercuryclient/util/health"
	jsoniter "github.com/json-iterator/go"
	"github.com/ordishs/go-bitcoin"
)

// rpcClient is the part of the bitcoind RPC client used here.
type rpcClient interface {
	SendRawTransaction(hex string) (string, error)
	GetRawTransaction(txID string) (*bitcoin.RawTransaction, error)
}

// bitcoind messages for a transaction that is already in the mempool or in a block
var alreadyKnownMessages = []string{
	"txn-already-known",
	"txn-already-in-mempool",
	"transaction already in block chain",
	"already have transaction",
}

type infoConfig struct {
	FeeRateSatsPerByte uint64 `json:"fee_rate_sats_per_byte"`
	InitLock           uint32 `json:"initlock"`
	Interval           uint32 `json:"interval"`
}

type Client struct {
	logger        ulogger.Logger
	settings      *settings.Settings
	rpc           rpcClient
	ping          func() error
	statechainURL *url.URL
}

func NewClient(logger ulogger.Logger, tSettings *settings.Settings) (*Client, error) {
	if tSettings.Bitcoind.RPC == nil {
		return nil, errors.NewConfigurationError("bitcoind_rpc is not set")
	}

	if tSettings.Statechain.URL == nil {
		return nil, errors.NewConfigurationError("statechain_url is not set")
	}

	btc, err := bitcoin.NewFromURL(tSettings.Bitcoind.RPC, false)
	if err != nil {
		return nil, errors.NewServiceUnavailableError("could not create bitcoind client for %s", tSettings.Bitcoind.RPC.Redacted(), err)
	}

	return &Client{
		logger:   logger.New("chain"),
		settings: tSettings,
		rpc:      btc,
		ping: func() error {
			_, err := btc.GetBlockchainInfo()
			return err
		},
		statechainURL: tSettings.Statechain.URL,
	}, nil
}

func (c *Client) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	if checkLiveness {
		return http.StatusOK, "OK", nil
	}

	checks := []health.Check{
		{Name: "Bitcoind", Check: func(_ context.Context, _ bool) (int, string, error) {
			if err := c.ping(); err != nil {
				return http.StatusServiceUnavailable, "bitcoind unreachable", err
			}

			return http.StatusOK, "OK", nil
		}},
		{Name: "Statechain", Check: func(ctx context.Context, _ bool) (int, string, error) {
			if _, err := c.infoConfig(ctx); err != nil {
				return http.StatusServiceUnavailable, "statechain server unreachable", err
			}

			return http.StatusOK, "OK", nil
		}},
	}

	return health.CheckAll(ctx, checkLiveness, checks)
}

// Broadcast submits the transaction and returns its txid. A transaction the node already knows is
// treated as broadcast, so re-broadcasting a pending withdrawal is safe.
func (c *Client) Broadcast(_ context.Context, rawTxHex string) (string, error) {
	txid, err := ledger.Txid(rawTxHex)
	if err != nil {
		return "", errors.NewBroadcastError("refusing to broadcast undecodable transaction", err)
	}

	nodeTxid, err := c.rpc.SendRawTransaction(rawTxHex)
	if err != nil {
		if isAlreadyKnown(err) {
			c.logger.Infof("[Broadcast] %s already known to the node", txid)
			return txid, nil
		}

		var netErr net.Error
		if errors.As(err, &netErr) {
			return "", errors.NewBroadcastError("broadcast of %s failed", txid, errors.NewNetworkError("bitcoind unreachable", err))
		}

		return "", errors.NewBroadcastError("node rejected %s", txid, err)
	}

	if nodeTxid != "" && nodeTxid != txid {
		c.logger.Warnf("[Broadcast] node returned txid %s for %s", nodeTxid, txid)
	}

	return txid, nil
}

func (c *Client) GetConfirmations(_ context.Context, txid string) (uint32, bool, error) {
	raw, err := c.rpc.GetRawTransaction(txid)
	if err != nil {
		if strings.Contains(err.Error(), "No such mempool or blockchain transaction") {
			return 0, false, nil
		}

		return 0, false, errors.NewServiceError("failed to look up %s", txid, err)
	}

	if raw == nil {
		return 0, false, nil
	}

	return raw.Confirmations, true, nil
}

// EstimateFeeRate returns the statechain server's current fee_rate_sats_per_byte.
func (c *Client) EstimateFeeRate(ctx context.Context) (uint64, error) {
	cfg, err := c.infoConfig(ctx)
	if err != nil {
		return 0, err
	}

	return cfg.FeeRateSatsPerByte, nil
}

func (c *Client) infoConfig(ctx context.Context) (*infoConfig, error) {
	b, err := util.DoHTTPRequest(ctx, c.statechainURL.JoinPath("info", "config").String())
	if err != nil {
		return nil, err
	}

	var cfg infoConfig
	if err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(b, &cfg); err != nil {
		return nil, errors.NewNetworkInvalidResponseError("malformed info/config response", err)
	}

	return &cfg, nil
}

func isAlreadyKnown(err error) bool {
	msg := err.Error()

	for _, m := range alreadyKnownMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}

	return false
}
