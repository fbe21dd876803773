package servicemanager

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	name     string
	startErr error
	healthy  bool

	mu     *sync.Mutex
	events *[]string
}

func (f *fakeService) record(e string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	*f.events = append(*f.events, f.name+":"+e)
}

func (f *fakeService) Init(context.Context) error {
	f.record("init")
	return nil
}

func (f *fakeService) Start(ctx context.Context, readyCh chan<- struct{}) error {
	f.record("start")

	if f.startErr != nil {
		return f.startErr
	}

	close(readyCh)
	<-ctx.Done()

	return nil
}

func (f *fakeService) Stop(context.Context) error {
	f.record("stop")
	return nil
}

func (f *fakeService) Health(context.Context, bool) (int, string, error) {
	if f.healthy {
		return http.StatusOK, "OK", nil
	}

	return http.StatusServiceUnavailable, "down", nil
}

func TestServiceManagerLifecycle(t *testing.T) {
	var (
		mu     sync.Mutex
		events []string
	)

	sm := NewServiceManager(context.Background(), ulogger.TestLogger{})

	require.NoError(t, sm.AddService("store", &fakeService{name: "store", healthy: true, mu: &mu, events: &events}))
	require.NoError(t, sm.AddService("api", &fakeService{name: "api", healthy: true, mu: &mu, events: &events}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, sm.WaitForServiceToBeReady(ctx))

	status, doc, err := sm.HealthHandler(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, doc, `"service": "api"`)

	sm.ForceShutdown()
	require.NoError(t, sm.Wait())

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, "store:init", events[0])
	assert.Equal(t, []string{"api:stop", "store:stop"}, events[len(events)-2:])
}

func TestServiceManagerStartError(t *testing.T) {
	var (
		mu     sync.Mutex
		events []string
	)

	sm := NewServiceManager(context.Background(), ulogger.TestLogger{})

	require.NoError(t, sm.AddService("broken", &fakeService{
		name:     "broken",
		startErr: errors.NewServiceError("bind failed"),
		mu:       &mu,
		events:   &events,
	}))

	err := sm.Wait()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrServiceError))
}

func TestHealthHandlerUnhealthy(t *testing.T) {
	var (
		mu     sync.Mutex
		events []string
	)

	sm := NewServiceManager(context.Background(), ulogger.TestLogger{})
	require.NoError(t, sm.AddService("api", &fakeService{name: "api", mu: &mu, events: &events}))

	status, _, err := sm.HealthHandler(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	sm.ForceShutdown()
	_ = sm.Wait()
}
