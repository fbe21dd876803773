// Package api serves the withdrawal operations, the activity history and backup chain verification
// over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/commerceblock/mercuryclient/activity"
	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/ledger"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/commerceblock/mercuryclient/settings"
	walletstore "github.com/commerceblock/mercuryclient/stores/wallet"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/commerceblock/mercuryclient/util/health"
	"github.com/felixge/fgprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Withdrawer is the part of the withdrawal service exposed over HTTP.
type Withdrawer interface {
	Withdraw(ctx context.Context, walletName string, statechainID string, toAddress string, feeRate string) (string, error)
	BroadcastPending(ctx context.Context, walletName string, statechainID string) (string, error)
	Reconcile(ctx context.Context, walletName string, statechainID string) (model.Coin, error)
	ConfirmWithdrawal(ctx context.Context, walletName string, statechainID string) (model.Coin, error)
}

type Server struct {
	logger     ulogger.Logger
	settings   *settings.Settings
	store      walletstore.Store
	withdrawal Withdrawer
	activities *activity.Log
	ledger     *ledger.Ledger
	checks     []health.Check
	e          *echo.Echo
	startTime  time.Time
}

// New returns an API server. The wallet store is always part of the readiness check; checks adds
// further dependencies such as the signer and the chain node.
func New(logger ulogger.Logger, tSettings *settings.Settings, store walletstore.Store, withdrawal Withdrawer,
	activities *activity.Log, checks ...health.Check) *Server {
	initPrometheusMetrics()

	if activities == nil {
		activities = activity.New(logger, store, nil)
	}

	return &Server{
		logger:     logger,
		settings:   tSettings,
		store:      store,
		withdrawal: withdrawal,
		activities: activities,
		ledger:     ledger.New(logger, store),
		checks:     append([]health.Check{{Name: "WalletStore", Check: store.Health}}, checks...),
		startTime:  time.Now(),
	}
}

// Init registers the routes:
//
//	POST /withdraw                       withdraw a coin
//	POST /withdraw/broadcast             re-broadcast a recorded withdrawal
//	POST /withdraw/reconcile             repair a coin after a failed save
//	POST /withdraw/confirm               mark a confirmed withdrawal WITHDRAWN
//	GET  /wallets/:name/activities       wallet history, oldest first
//	GET  /backups/:statechainId/verify   check a coin's backup chain
//	GET  /health/liveness, /health/readiness, /metrics
//	GET  /debug/fgprof                   wall-clock profile, only when api_profiler is set
func (s *Server) Init(_ context.Context) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = s.settings.API.EchoDebug

	e.Use(middleware.Recover())

	if e.Debug {
		e.Use(middleware.Logger())
	}

	e.GET("/health/liveness", s.healthHandler(true))
	e.GET("/health/readiness", s.healthHandler(false))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if s.settings.API.Profiler {
		e.GET("/debug/fgprof", echo.WrapHandler(fgprof.Handler()))
	}

	e.POST("/withdraw", s.Withdraw)
	e.POST("/withdraw/broadcast", s.BroadcastPending)
	e.POST("/withdraw/reconcile", s.Reconcile)
	e.POST("/withdraw/confirm", s.ConfirmWithdrawal)

	e.GET("/wallets/:name/activities", s.GetActivities)
	e.GET("/backups/:statechainId/verify", s.VerifyBackups)

	s.e = e

	return nil
}

func (s *Server) Start(ctx context.Context, readyCh chan<- struct{}) error {
	addr := s.settings.API.HTTPListenAddress
	if addr == "" {
		return errors.NewConfigurationError("[API] api_httpListenAddress is not set")
	}

	go func() {
		<-ctx.Done()

		s.logger.Infof("[API] service shutting down")

		if err := s.e.Shutdown(context.Background()); err != nil {
			s.logger.Errorf("[API] service shutdown error: %s", err)
		}
	}()

	s.logger.Infof("[API] listening on %s", addr)

	close(readyCh)

	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.NewServiceError("[API] failed to start HTTP server", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.e == nil {
		return nil
	}

	return s.e.Shutdown(ctx)
}

func (s *Server) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	if checkLiveness {
		return http.StatusOK, fmt.Sprintf("API is alive. Uptime: %s", time.Since(s.startTime).Round(time.Second)), nil
	}

	return health.CheckAll(ctx, checkLiveness, s.checks)
}

func (s *Server) healthHandler(checkLiveness bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, details, err := s.Health(c.Request().Context(), checkLiveness)
		if err != nil {
			s.logger.Warnf("[API] health check failed: %v", err)
		}

		return c.String(status, details)
	}
}
