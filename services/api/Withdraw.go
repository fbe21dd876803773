package api

import (
	"net/http"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/commerceblock/mercuryclient/chaincfg"
	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/labstack/echo/v4"
)

type withdrawRequest struct {
	WalletName   string `json:"walletName"`
	StatechainID string `json:"statechainId"`
	ToAddress    string `json:"toAddress"`
	// empty selects the network estimate
	FeeRate string `json:"feeRate,omitempty"`
}

type coinRequest struct {
	WalletName   string `json:"walletName"`
	StatechainID string `json:"statechainId"`
}

type txidResponse struct {
	Txid string `json:"txid"`
}

type coinResponse struct {
	StatechainID string           `json:"statechainId"`
	Status       model.CoinStatus `json:"status"`
	TxWithdraw   string           `json:"txWithdraw,omitempty"`
}

// Withdraw handles POST /withdraw. The destination is checked against the wallet's network before
// the withdrawal service is called.
func (s *Server) Withdraw(c echo.Context) error {
	prometheusAPIRequests.WithLabelValues("Withdraw").Inc()

	var req withdrawRequest
	if err := c.Bind(&req); err != nil {
		return sendError(c, errors.NewInvalidArgumentError("malformed request body", err))
	}

	if err := req.validate(); err != nil {
		return sendError(c, err)
	}

	ctx := c.Request().Context()

	wallet, err := s.store.GetWallet(ctx, req.WalletName)
	if err != nil {
		return sendError(c, err)
	}

	if err = validateAddress(wallet.Network(), req.ToAddress); err != nil {
		return sendError(c, err)
	}

	txid, err := s.withdrawal.Withdraw(ctx, req.WalletName, req.StatechainID, req.ToAddress, req.FeeRate)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(http.StatusOK, &txidResponse{Txid: txid})
}

// BroadcastPending handles POST /withdraw/broadcast.
func (s *Server) BroadcastPending(c echo.Context) error {
	prometheusAPIRequests.WithLabelValues("BroadcastPending").Inc()

	req, err := bindCoinRequest(c)
	if err != nil {
		return sendError(c, err)
	}

	txid, err := s.withdrawal.BroadcastPending(c.Request().Context(), req.WalletName, req.StatechainID)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(http.StatusOK, &txidResponse{Txid: txid})
}

// Reconcile handles POST /withdraw/reconcile.
func (s *Server) Reconcile(c echo.Context) error {
	prometheusAPIRequests.WithLabelValues("Reconcile").Inc()

	req, err := bindCoinRequest(c)
	if err != nil {
		return sendError(c, err)
	}

	coin, err := s.withdrawal.Reconcile(c.Request().Context(), req.WalletName, req.StatechainID)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(http.StatusOK, newCoinResponse(coin))
}

// ConfirmWithdrawal handles POST /withdraw/confirm.
func (s *Server) ConfirmWithdrawal(c echo.Context) error {
	prometheusAPIRequests.WithLabelValues("ConfirmWithdrawal").Inc()

	req, err := bindCoinRequest(c)
	if err != nil {
		return sendError(c, err)
	}

	coin, err := s.withdrawal.ConfirmWithdrawal(c.Request().Context(), req.WalletName, req.StatechainID)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(http.StatusOK, newCoinResponse(coin))
}

func (r *withdrawRequest) validate() error {
	switch {
	case r.WalletName == "":
		return errors.NewInvalidArgumentError("walletName is required")
	case r.StatechainID == "":
		return errors.NewInvalidArgumentError("statechainId is required")
	case r.ToAddress == "":
		return errors.NewInvalidArgumentError("toAddress is required")
	}

	return nil
}

func bindCoinRequest(c echo.Context) (*coinRequest, error) {
	var req coinRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.NewInvalidArgumentError("malformed request body", err)
	}

	if req.WalletName == "" || req.StatechainID == "" {
		return nil, errors.NewInvalidArgumentError("walletName and statechainId are required")
	}

	return &req, nil
}

func newCoinResponse(coin model.Coin) *coinResponse {
	return &coinResponse{
		StatechainID: coin.StatechainID,
		Status:       coin.Status,
		TxWithdraw:   coin.TxWithdraw,
	}
}

// validateAddress checks that address decodes and belongs to the wallet's network.
func validateAddress(network string, address string) error {
	params, err := chaincfg.GetChainParams(network)
	if err != nil {
		return err
	}

	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return errors.NewInvalidArgumentError("invalid destination address %q", address, err)
	}

	if !addr.IsForNet(params) {
		return errors.NewInvalidArgumentError("destination address %s is not a %s address", address, chaincfg.Normalise(network))
	}

	return nil
}
