package api

import (
	"net/http"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/labstack/echo/v4"
)

type verifyResponse struct {
	StatechainID string `json:"statechainId"`
	Valid        bool   `json:"valid"`
	Count        int    `json:"count"`
	Latest       uint32 `json:"latest,omitempty"`
	Withdrawal   bool   `json:"withdrawal"`
	Reason       string `json:"reason,omitempty"`
}

// VerifyBackups handles GET /backups/:statechainId/verify. A broken chain is reported with
// valid=false and a reason; an unknown coin is a 404.
func (s *Server) VerifyBackups(c echo.Context) error {
	prometheusAPIRequests.WithLabelValues("VerifyBackups").Inc()

	ctx := c.Request().Context()
	statechainID := c.Param("statechainId")

	history, err := s.ledger.Load(ctx, statechainID)
	if err != nil {
		return sendError(c, err)
	}

	if len(history) == 0 {
		return sendError(c, errors.NewEmptyHistoryError("there is no backup transaction for statechain %s", statechainID))
	}

	resp := &verifyResponse{
		StatechainID: statechainID,
		Count:        len(history),
	}

	if err = s.ledger.Verify(ctx, statechainID); err != nil {
		if !errors.Is(err, errors.ErrInvalidSequence) && !errors.Is(err, errors.ErrTxInvalid) {
			return sendError(c, err)
		}

		resp.Reason = err.Error()

		return c.JSON(http.StatusOK, resp)
	}

	latest := history[len(history)-1]

	resp.Valid = true
	resp.Latest = latest.TxN
	resp.Withdrawal = latest.Withdrawal

	return c.JSON(http.StatusOK, resp)
}
