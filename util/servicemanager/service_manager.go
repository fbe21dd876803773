// Package servicemanager starts long-running services in registration order, stops them in reverse
// order and aggregates their health.
package servicemanager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/ulogger"
	"golang.org/x/sync/errgroup"
)

// Service is implemented by anything the manager can run.
type Service interface {
	Init(ctx context.Context) error
	Start(ctx context.Context, readyCh chan<- struct{}) error
	Stop(ctx context.Context) error
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
}

type serviceWrapper struct {
	name     string
	instance Service
	readyCh  chan struct{}
}

type ServiceManager struct {
	services   []serviceWrapper
	logger     ulogger.Logger
	Ctx        context.Context
	cancelFunc context.CancelFunc
	g          *errgroup.Group
	stopWait   time.Duration
}

// NewServiceManager returns a manager whose context is cancelled on SIGINT or SIGTERM.
func NewServiceManager(ctx context.Context, logger ulogger.Logger) *ServiceManager {
	ctx, cancelFunc := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	sm := &ServiceManager{
		logger:     logger,
		Ctx:        ctx,
		cancelFunc: cancelFunc,
		g:          g,
		stopWait:   5 * time.Second,
	}

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)

		select {
		case <-sigs:
			sm.logger.Infof("Received shutdown signal. Stopping services...")
			sm.cancelFunc()
		case <-ctx.Done():
		}
	}()

	return sm
}

// AddService initialises the service and starts it once the previously added service is ready.
func (sm *ServiceManager) AddService(name string, service Service) error {
	var previous chan struct{}
	if len(sm.services) > 0 {
		previous = sm.services[len(sm.services)-1].readyCh
	}

	sw := serviceWrapper{
		name:     name,
		instance: service,
		readyCh:  make(chan struct{}),
	}

	sm.services = append(sm.services, sw)

	sm.logger.Infof("Initializing service %s...", name)

	if err := service.Init(sm.Ctx); err != nil {
		return errors.NewServiceError("failed to initialise service %s", name, err)
	}

	sm.g.Go(func() error {
		if previous != nil {
			select {
			case <-previous:
			case <-sm.Ctx.Done():
				return sm.Ctx.Err()
			}
		}

		sm.logger.Infof("Starting service %s...", name)

		if err := service.Start(sm.Ctx, sw.readyCh); err != nil {
			sm.logger.Errorf("Error from service start %s: %v", name, err)
			return err
		}

		return nil
	})

	return nil
}

// WaitForServiceToBeReady blocks until every registered service has closed its ready channel.
func (sm *ServiceManager) WaitForServiceToBeReady(ctx context.Context) error {
	for _, s := range sm.services {
		select {
		case <-s.readyCh:
			sm.logger.Infof("Service %s is ready", s.name)
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (sm *ServiceManager) ForceShutdown() {
	sm.cancelFunc()
}

// Wait blocks until a service fails or the context is cancelled, then stops all services in reverse
// order. A plain cancellation is not reported as an error.
func (sm *ServiceManager) Wait() error {
	err := sm.g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		sm.logger.Errorf("Received error: %v", err)
	}

	for i := len(sm.services) - 1; i >= 0; i-- {
		service := sm.services[i]

		stopCtx, stopCancel := context.WithTimeout(context.Background(), sm.stopWait)

		if stopErr := service.instance.Stop(stopCtx); stopErr != nil {
			sm.logger.Warnf("[%s] Failed to stop service: %v", service.name, stopErr)
		} else {
			sm.logger.Infof("[%s] Service stopped gracefully", service.name)
		}

		stopCancel()
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// HealthHandler aggregates the health of all registered services.
func (sm *ServiceManager) HealthHandler(ctx context.Context, checkLiveness bool) (int, string, error) {
	overallStatus := http.StatusOK
	msgs := make([]string, 0, len(sm.services))

	for _, service := range sm.services {
		status, details, err := service.instance.Health(ctx, checkLiveness)
		if err != nil || status != http.StatusOK {
			overallStatus = http.StatusServiceUnavailable
		}

		if details == "" || details[0] != '{' {
			details = fmt.Sprintf(`{"message": %q}`, details)
		}

		msgs = append(msgs, fmt.Sprintf(`{"service": "%s","status": "%d","dependencies": [%s]}`, service.name, status, details))
	}

	jsonStr := fmt.Sprintf(`{"status": "%d", "services": [%s]}`, overallStatus, strings.Join(msgs, ",\n"))

	var jsonFormatted bytes.Buffer
	if err := json.Indent(&jsonFormatted, []byte(jsonStr), "", "  "); err == nil {
		jsonStr = jsonFormatted.String()
	}

	return overallStatus, jsonStr, nil
}
