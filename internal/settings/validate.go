package settings

import (
	"fmt"
	"strings"
	"time"
)

// Serving modes.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
	TransportBoth  = "both"
)

// Validate applies defaults and verifies required fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Server.Name == "" {
		cfg.Server.Name = "cfr-decompiler"
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "1.1.0"
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = TransportStdio
	}
	cfg.Server.Transport = strings.ToLower(strings.TrimSpace(cfg.Server.Transport))
	switch cfg.Server.Transport {
	case TransportStdio, TransportSSE, TransportHTTP, TransportBoth:
	default:
		return fmt.Errorf("server.transport must be stdio, sse, http, or both")
	}

	if cfg.Server.HTTP.Listen == "" {
		cfg.Server.HTTP.Listen = "0.0.0.0:8000"
	}
	if cfg.Server.HTTP.Path == "" {
		cfg.Server.HTTP.Path = "/mcp"
	}
	if cfg.Server.HTTP.SSEPath == "" {
		cfg.Server.HTTP.SSEPath = "/sse"
	}
	if !strings.HasPrefix(cfg.Server.HTTP.Path, "/") {
		return fmt.Errorf("server.http.path must start with /")
	}
	if !strings.HasPrefix(cfg.Server.HTTP.SSEPath, "/") {
		return fmt.Errorf("server.http.sse_path must start with /")
	}

	if cfg.Server.Limits.MaxTotal < 0 {
		return fmt.Errorf("server.limits.max_total must be >= 0")
	}
	if cfg.Server.Limits.RatePerMinute < 0 {
		return fmt.Errorf("server.limits.rate_per_minute must be >= 0")
	}

	if cfg.Server.ResultCache.Enabled {
		if cfg.Server.ResultCache.TTL == "" {
			cfg.Server.ResultCache.TTL = "1h"
		}
		if _, err := time.ParseDuration(cfg.Server.ResultCache.TTL); err != nil {
			return fmt.Errorf("server.result_cache.ttl is invalid: %w", err)
		}
		if cfg.Server.ResultCache.MaxEntries < 0 {
			return fmt.Errorf("server.result_cache.max_entries must be >= 0")
		}
		if cfg.Server.ResultCache.MaxEntries == 0 {
			cfg.Server.ResultCache.MaxEntries = 256
		}
	}

	if cfg.CFR.JavaPath == "" {
		cfg.CFR.JavaPath = "java"
	}
	if cfg.CFR.JarPath == "" {
		cfg.CFR.JarPath = "cfr.jar"
	}
	if cfg.CFR.Timeout == "" {
		cfg.CFR.Timeout = "30s"
	}
	if _, err := time.ParseDuration(cfg.CFR.Timeout); err != nil {
		return fmt.Errorf("cfr.timeout is invalid: %w", err)
	}
	if cfg.CFR.MaxConcurrent < 0 {
		return fmt.Errorf("cfr.max_concurrent must be >= 0")
	}
	if cfg.CFR.MaxConcurrent == 0 {
		cfg.CFR.MaxConcurrent = 4
	}

	return nil
}
