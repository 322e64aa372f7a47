package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"agendabot/internal/calendar"
	"agendabot/internal/config"
	"agendabot/internal/googleauth"
	"agendabot/internal/instrumentation"
	"agendabot/internal/request"
	"agendabot/internal/timetext"
)

// ServerContext bundles the shared state of a running MCP server: the
// application config, the credential store, the calendar client and the
// telemetry recorders. Tool handlers receive it instead of a grab bag of
// globals.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	conf     *config.Config
	creds    *googleauth.Store
	resolver timetext.Resolver
	logger   *slog.Logger

	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger

	mu       sync.RWMutex
	client   *calendar.Client
	shutdown bool
}

// Options configures a ServerContext.
type Options struct {
	Config   *config.Config
	Creds    *googleauth.Store
	Resolver timetext.Resolver
	Logger   *slog.Logger
	Metrics  *instrumentation.Metrics
	Audit    *instrumentation.AuditLogger
}

// NewServerContext creates a ServerContext. The calendar client is built
// lazily on first use, so a server can start before any token exists.
func NewServerContext(ctx context.Context, opts Options) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		conf:     opts.Config,
		creds:    opts.Creds,
		resolver: opts.Resolver,
		logger:   logger,
		metrics:  metrics,
		audit:    opts.Audit,
	}
}

// Context returns the server's lifetime context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the application configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.conf
}

// Creds returns the credential store.
func (sc *ServerContext) Creds() *googleauth.Store {
	return sc.creds
}

// Resolver returns the free-text time resolver.
func (sc *ServerContext) Resolver() timetext.Resolver {
	return sc.resolver
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder. Never nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Audit returns the audit logger, which may be nil when audit logging is
// disabled.
func (sc *ServerContext) Audit() *instrumentation.AuditLogger {
	return sc.audit
}

// CalendarClient returns the shared calendar client, creating it on first
// use.
func (sc *ServerContext) CalendarClient() *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.client == nil {
		sc.client = calendar.NewClient(sc.creds, request.New(sc.logger), sc.logger)
	}
	return sc.client
}

// SetCalendarClient replaces the shared calendar client. Tests use this to
// inject a client pointed at a fake backend.
func (sc *ServerContext) SetCalendarClient(client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.client = client
}

// DefaultPolicy returns the request policy from the configuration.
func (sc *ServerContext) DefaultPolicy() request.Policy {
	if sc.conf == nil {
		return request.DefaultPolicy()
	}
	return request.Policy{
		Timeout:     time.Duration(sc.conf.TimeoutSeconds) * time.Second,
		Retries:     sc.conf.Retries,
		BackoffBase: sc.conf.BackoffBase,
	}
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context. Idempotent.
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
