package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Mr-xn/cfr-mcp-server/configs"
	"github.com/Mr-xn/cfr-mcp-server/internal/app"
	"github.com/Mr-xn/cfr-mcp-server/internal/audit"
	"github.com/Mr-xn/cfr-mcp-server/internal/cfr"
	"github.com/Mr-xn/cfr-mcp-server/internal/config"
	"github.com/Mr-xn/cfr-mcp-server/internal/idempotency"
	"github.com/Mr-xn/cfr-mcp-server/internal/log"
	"github.com/Mr-xn/cfr-mcp-server/internal/messages"
	"github.com/Mr-xn/cfr-mcp-server/internal/ratelimit"
	"github.com/Mr-xn/cfr-mcp-server/internal/render"
	"github.com/Mr-xn/cfr-mcp-server/internal/runtime"
	"github.com/Mr-xn/cfr-mcp-server/internal/settings"
	"github.com/Mr-xn/cfr-mcp-server/internal/startup"
	"github.com/Mr-xn/cfr-mcp-server/internal/timeutil"
)

func main() {
	embeddedConfig := flag.String("embedded-config", "", "Use embedded config from configs/ (filename)")
	transport := flag.String("transport", "", "Override serving mode (stdio, sse, http, both)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	var rendered []byte
	if *embeddedConfig != "" {
		raw, err := configs.Load(*embeddedConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load embedded config failed: %v\n", err)
			os.Exit(1)
		}
		rendered, err = render.RenderBytes(*embeddedConfig, raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "render config failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		rendered, err = render.RenderFile(cfg.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "render config failed: %v\n", err)
			os.Exit(1)
		}
	}

	setCfg, err := settings.Load(rendered)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse config failed: %v\n", err)
		os.Exit(1)
	}
	if *transport != "" {
		setCfg.Server.Transport = *transport
		if err := settings.Validate(setCfg); err != nil {
			fmt.Fprintf(os.Stderr, "invalid transport override: %v\n", err)
			os.Exit(1)
		}
	}

	// Stdio serving owns stdout for protocol traffic; logs move to stderr.
	logSink := os.Stdout
	if setCfg.Server.Transport == settings.TransportStdio || setCfg.Server.Transport == settings.TransportBoth {
		logSink = os.Stderr
	}
	logger := log.NewWithWriter(cfg.LogLevel, logSink)

	bundle, err := messages.Load(cfg.Lang)
	if err != nil {
		logger.Error("load messages failed", "error", err)
		os.Exit(1)
	}

	timeout := timeutil.ParseDurationOrDefault(setCfg.CFR.Timeout, 30*time.Second)
	service := cfr.Service{
		Builder: cfr.Builder{
			JavaPath: setCfg.CFR.JavaPath,
			JarPath:  setCfg.CFR.JarPath,
			Logger:   logger,
		},
		Runner:   cfr.NewRunner(timeout, setCfg.CFR.MaxConcurrent, bundle, logger),
		Messages: bundle,
		Logger:   logger,
	}

	var cache *idempotency.Cache
	if setCfg.Server.ResultCache.Enabled {
		ttl := timeutil.ParseDurationOrDefault(setCfg.Server.ResultCache.TTL, time.Hour)
		cache = idempotency.NewCache(ttl, setCfg.Server.ResultCache.MaxEntries)
	}

	builder := runtime.Builder{
		Logger:   logger,
		Audit:    audit.New(logger),
		Messages: bundle,
		Cache:    cache,
		Limiter:  ratelimit.New(setCfg.Server.Limits.MaxTotal, setCfg.Server.Limits.RatePerMinute, bundle),
		Service:  service,
	}
	server, err := builder.Build(setCfg)
	if err != nil {
		logger.Error("build server failed", "error", err)
		os.Exit(1)
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		logger.Warn("shutdown requested", "signal", sig.String())
		cancel()
	}()

	startup.Probe(baseCtx, setCfg.CFR.JavaPath, setCfg.CFR.JarPath, logger)

	switch setCfg.Server.Transport {
	case settings.TransportStdio:
		if err := runStdio(baseCtx, server); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	case settings.TransportBoth:
		go func() {
			if err := runHTTP(baseCtx, cfg, setCfg, server, logger); err != nil {
				logger.Error("http runtime error", "error", err)
				cancel()
			}
		}()
		if err := runStdio(baseCtx, server); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	default:
		if err := runHTTP(baseCtx, cfg, setCfg, server, logger); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	}
}

func runStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func runHTTP(ctx context.Context, envCfg config.Config, setCfg *settings.Config, server *mcp.Server, logger *slog.Logger) error {
	getServer := func(*http.Request) *mcp.Server { return server }

	handlers := map[string]http.Handler{}
	switch setCfg.Server.Transport {
	case settings.TransportHTTP:
		handlers[setCfg.Server.HTTP.Path] = mcp.NewStreamableHTTPHandler(getServer, &mcp.StreamableHTTPOptions{
			Stateless: setCfg.Server.HTTP.Stateless,
		})
	default:
		// The SSE handler serves both the stream-open GET and the per-session
		// message POST endpoint it announces.
		handlers[setCfg.Server.HTTP.SSEPath] = mcp.NewSSEHandler(getServer, nil)
		handlers[setCfg.Server.HTTP.Path] = mcp.NewStreamableHTTPHandler(getServer, &mcp.StreamableHTTPOptions{
			Stateless: setCfg.Server.HTTP.Stateless,
		})
	}

	shutdownTimeout := timeutil.ParseDurationOrDefault(setCfg.Server.ShutdownTimeout, envCfg.ShutdownTimeout)
	application, err := app.New(ctx, setCfg.Server.HTTP, handlers, logger, shutdownTimeout)
	if err != nil {
		return err
	}
	logger.Info("serving", "transport", setCfg.Server.Transport, "listen", setCfg.Server.HTTP.Listen,
		"sse_path", setCfg.Server.HTTP.SSEPath, "mcp_path", setCfg.Server.HTTP.Path)
	return application.Run(ctx)
}
