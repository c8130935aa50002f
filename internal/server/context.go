package server

import (
	"context"
	"sync"

	"github.com/teemow/linkauth/internal/auth"
	"github.com/teemow/linkauth/internal/calendar"
	"github.com/teemow/linkauth/internal/directory"
	"github.com/teemow/linkauth/internal/instrumentation"
)

// ServerContext holds the shared state for the MCP server: the auth
// coordinator, the service clients and the metrics recorder.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	coordinator *auth.Coordinator
	calendar    *calendar.Client
	directory   *directory.Client
	metrics     *instrumentation.Metrics

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context.
func NewServerContext(ctx context.Context, coordinator *auth.Coordinator) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		coordinator: coordinator,
	}
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Coordinator returns the auth state coordinator.
func (sc *ServerContext) Coordinator() *auth.Coordinator {
	return sc.coordinator
}

// CalendarClient returns the Calendar client, or nil when calendar serving
// is not configured.
func (sc *ServerContext) CalendarClient() *calendar.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.calendar
}

// SetCalendarClient sets the Calendar client.
func (sc *ServerContext) SetCalendarClient(client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendar = client
}

// DirectoryClient returns the directory client, or nil when directory
// serving is not configured.
func (sc *ServerContext) DirectoryClient() *directory.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.directory
}

// SetDirectoryClient sets the directory client.
func (sc *ServerContext) SetDirectoryClient(client *directory.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.directory = client
}

// Metrics returns the metrics recorder. The zero-value recorder is
// returned when instrumentation is disabled, so callers never need a nil
// check.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.metrics == nil {
		return &instrumentation.Metrics{}
	}
	return sc.metrics
}

// SetMetrics sets the metrics recorder.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// IsShutdown returns whether the server has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
