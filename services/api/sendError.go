package api

import (
	"net/http"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
	Err    string `json:"error"`
	// set when the coin must be reconciled before it can be used again
	Reconcile *errors.ReconcileErrData `json:"reconcile,omitempty"`
}

// statusFor maps the outermost coded error to an HTTP status. Wrapped causes are ignored, so a
// signing failure caused by a 404 from the oracle is still a 502.
func statusFor(err error) int {
	var tErr *errors.Error
	if !errors.As(err, &tErr) {
		return http.StatusInternalServerError
	}

	switch tErr.Code() {
	case errors.ERR_WALLET_NOT_FOUND,
		errors.ERR_COIN_NOT_FOUND,
		errors.ERR_NO_BACKUP_HISTORY,
		errors.ERR_EMPTY_HISTORY,
		errors.ERR_TX_NOT_FOUND,
		errors.ERR_NOT_FOUND:
		return http.StatusNotFound
	case errors.ERR_INVALID_COIN_STATE,
		errors.ERR_INVALID_SEQUENCE,
		errors.ERR_WALLET_EXISTS:
		return http.StatusConflict
	case errors.ERR_INVALID_ARGUMENT,
		errors.ERR_INVALID_FEE_RATE:
		return http.StatusBadRequest
	case errors.ERR_SIGNING,
		errors.ERR_BROADCAST,
		errors.ERR_FEE_ESTIMATION:
		return http.StatusBadGateway
	case errors.ERR_CONTEXT_CANCELED,
		errors.ERR_CONTEXT,
		errors.ERR_SERVICE_UNAVAILABLE,
		errors.ERR_STORAGE_UNAVAILABLE:
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

func sendError(c echo.Context, err error) error {
	status := statusFor(err)

	code := errors.ERR_UNKNOWN

	var tErr *errors.Error
	if errors.As(err, &tErr) {
		code = tErr.Code()
	}

	prometheusAPIErrors.WithLabelValues(c.Path(), code.Enum(), errors.GetErrorCategory(err)).Inc()

	resp := &errorResponse{
		Status: status,
		Code:   code.Enum(),
		Err:    err.Error(),
	}

	if data, ok := errors.IsReconciliationRequired(err); ok {
		resp.Reconcile = data
	}

	return c.JSON(status, resp)
}
