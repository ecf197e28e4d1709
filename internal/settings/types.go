package settings

// Config is the top-level YAML settings file.
type Config struct {
	// Server describes the MCP server settings.
	Server ServerConfig `yaml:"server"`
	// CFR describes the external decompiler invocation policy.
	CFR CFRConfig `yaml:"cfr"`
}

// ServerConfig defines MCP server settings.
type ServerConfig struct {
	// Name is the MCP server name.
	Name string `yaml:"name"`
	// Version is the MCP server version.
	Version string `yaml:"version"`
	// Transport selects the serving mode ("stdio", "sse", "http" or "both").
	Transport string `yaml:"transport"`
	// ShutdownTimeout overrides graceful shutdown duration.
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	// HTTP configures the HTTP transports.
	HTTP HTTPConfig `yaml:"http"`
	// Limits caps decompile calls.
	Limits LimitsConfig `yaml:"limits"`
	// ResultCache configures optional caching of decompiled output.
	ResultCache CacheConfig `yaml:"result_cache"`
}

// HTTPConfig configures the HTTP transports.
type HTTPConfig struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// Path is the streamable HTTP endpoint path.
	Path string `yaml:"path"`
	// SSEPath is the SSE stream-open endpoint path. Client message posts go
	// to the session endpoint the stream announces.
	SSEPath string `yaml:"sse_path"`
	// ReadTimeout limits request read time.
	ReadTimeout string `yaml:"read_timeout"`
	// WriteTimeout limits response write time. Zero keeps event streams open.
	WriteTimeout string `yaml:"write_timeout"`
	// IdleTimeout controls idle connections.
	IdleTimeout string `yaml:"idle_timeout"`
	// Stateless disables session tracking on the streamable transport.
	Stateless bool `yaml:"stateless"`
}

// CFRConfig defines how the external decompiler is invoked.
type CFRConfig struct {
	// JavaPath is the java binary used to run the jar.
	JavaPath string `yaml:"java_path"`
	// JarPath is the CFR jar location.
	JarPath string `yaml:"jar_path"`
	// Timeout is the hard wall-clock limit per decompilation.
	Timeout string `yaml:"timeout"`
	// MaxConcurrent caps simultaneous decompiler child processes.
	MaxConcurrent int `yaml:"max_concurrent"`
}

// LimitsConfig caps tool usage.
type LimitsConfig struct {
	// MaxTotal limits total decompile calls for the process lifetime.
	MaxTotal int `yaml:"max_total"`
	// RatePerMinute limits calls per minute.
	RatePerMinute int `yaml:"rate_per_minute"`
}

// CacheConfig configures the decompiled-output cache.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `yaml:"enabled"`
	// TTL is how long entries stay valid.
	TTL string `yaml:"ttl"`
	// MaxEntries bounds the cache size.
	MaxEntries int `yaml:"max_entries"`
}
