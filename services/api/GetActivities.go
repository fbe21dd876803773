package api

import (
	"net/http"

	"github.com/commerceblock/mercuryclient/model"
	"github.com/labstack/echo/v4"
)

type activitiesResponse struct {
	Wallet     string           `json:"wallet"`
	Activities []model.Activity `json:"activities"`
}

// GetActivities handles GET /wallets/:name/activities and returns the full history, oldest first.
func (s *Server) GetActivities(c echo.Context) error {
	prometheusAPIRequests.WithLabelValues("GetActivities").Inc()

	name := c.Param("name")

	resp := &activitiesResponse{
		Wallet:     name,
		Activities: []model.Activity{},
	}

	for a, err := range s.activities.All(c.Request().Context(), name) {
		if err != nil {
			return sendError(c, err)
		}

		resp.Activities = append(resp.Activities, a)
	}

	return c.JSON(http.StatusOK, resp)
}
