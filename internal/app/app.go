package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Mr-xn/cfr-mcp-server/internal/http/health"
	"github.com/Mr-xn/cfr-mcp-server/internal/settings"
	"github.com/Mr-xn/cfr-mcp-server/internal/timeutil"
)

// App controls the HTTP server lifecycle around the MCP transports.
type App struct {
	baseCtx         context.Context
	server          *http.Server
	health          *health.Handler
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New initializes the HTTP server. handlers maps endpoint paths to the MCP
// transport handlers (stream-open and message endpoints live behind them);
// health endpoints are added on top.
func New(baseCtx context.Context, httpCfg settings.HTTPConfig, handlers map[string]http.Handler, logger *slog.Logger, shutdownTimeout time.Duration) (*App, error) {
	if baseCtx == nil {
		return nil, fmt.Errorf("base context is nil")
	}
	if len(handlers) == 0 {
		return nil, fmt.Errorf("no transport handlers")
	}

	healthHandler := health.New()
	mux := http.NewServeMux()
	for path, handler := range handlers {
		if handler == nil {
			return nil, fmt.Errorf("handler for %s is nil", path)
		}
		mux.Handle(path, handler)
	}
	mux.HandleFunc("/healthz", healthHandler.Healthz)
	mux.HandleFunc("/readyz", healthHandler.Readyz)

	srv := &http.Server{
		Addr:        httpCfg.Listen,
		Handler:     mux,
		ReadTimeout: timeutil.ParseDurationOrDefault(httpCfg.ReadTimeout, 15*time.Second),
		// Event streams stay open for the session lifetime, so the write
		// timeout defaults to unlimited.
		WriteTimeout: timeutil.ParseDurationOrDefault(httpCfg.WriteTimeout, 0),
		IdleTimeout:  timeutil.ParseDurationOrDefault(httpCfg.IdleTimeout, 60*time.Second),
	}

	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &App{
		baseCtx:         baseCtx,
		server:          srv,
		health:          healthHandler,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.health.SetReady()
		if a.logger != nil {
			a.logger.Info("http server started", "addr", a.server.Addr)
		}
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		if a.logger != nil {
			a.logger.Info("shutdown requested")
		}
		return a.shutdown()
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		if a.logger != nil {
			a.logger.Error("http server error", "error", err)
		}
		return err
	}
}

func (a *App) shutdown() error {
	a.health.SetNotReady()
	ctx, cancel := context.WithTimeout(a.baseCtx, a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
