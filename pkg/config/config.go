// Package config loads server configuration. Settings come from three
// layers, each overriding the last: built-in defaults, an optional YAML
// file, and environment variables. The package is a leaf; callers map
// its values onto the component configs they construct.
package config

import (
	"net"
	"path/filepath"
	"strconv"
)

// Environment names accepted in Config.Env.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage backend names accepted in StorageConfig.Backend.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Stream transport names accepted in StreamConfig.Transport.
const (
	TransportNone = "none"
	TransportNNG  = "nng"
	TransportZMQ  = "zmq"
)

// Config holds the full server configuration.
type Config struct {
	Env       string          `yaml:"env"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Graph     GraphConfig     `yaml:"graph"`
	Storage   StorageConfig   `yaml:"storage"`
	Stream    StreamConfig    `yaml:"stream"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	TLSCertFile     string `yaml:"tls_cert_file"`
	TLSKeyFile      string `yaml:"tls_key_file"`
	TrustedProxies  string `yaml:"trusted_proxies"` // comma-separated IPs or CIDRs
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
	GraphQLMaxDepth int    `yaml:"graphql_max_depth"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// TLSEnabled reports whether a certificate pair is configured.
func (s ServerConfig) TLSEnabled() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// GraphConfig controls which dependency graph is loaded at startup.
type GraphConfig struct {
	// File is a graph JSON document to load. When empty and LoadSample
	// is true, the bundled sample organization is loaded instead.
	File       string `yaml:"file"`
	LoadSample bool   `yaml:"load_sample"`
}

// StorageConfig selects the report store backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // memory, sqlite, postgres

	// DataDir is the base directory for file-backed state: the SQLite
	// database and the append-only journal live under it.
	DataDir string `yaml:"data_dir"`

	// DatabaseURL is the Postgres connection string, used when Backend
	// is postgres.
	DatabaseURL string `yaml:"database_url"`

	// JournalEnabled turns on the append-only report journal.
	JournalEnabled bool `yaml:"journal_enabled"`

	Archive ArchiveConfig `yaml:"archive"`
}

// SQLitePath returns the SQLite database path under DataDir.
func (s StorageConfig) SQLitePath() string {
	return filepath.Join(s.DataDir, "reports.db")
}

// JournalDir returns the journal directory under DataDir.
func (s StorageConfig) JournalDir() string {
	return filepath.Join(s.DataDir, "journal")
}

// ArchiveConfig configures the S3 report archive. An empty bucket
// disables archiving.
type ArchiveConfig struct {
	Bucket     string `yaml:"bucket"`
	Prefix     string `yaml:"prefix"`
	Region     string `yaml:"region"`
	Passphrase string `yaml:"passphrase"`
}

// Enabled reports whether archiving is configured.
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// StreamConfig configures the PUB socket event feed.
type StreamConfig struct {
	Transport  string `yaml:"transport"` // none, nng, zmq
	Address    string `yaml:"address"`
	BufferSize int    `yaml:"buffer_size"`
}

// Enabled reports whether a stream transport is configured.
func (s StreamConfig) Enabled() bool {
	return s.Transport != "" && s.Transport != TransportNone
}

// RateLimitConfig configures per-client HTTP rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// CORSConfig configures cross-origin access. No origins means
// cross-origin requests are refused.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

// Default returns the built-in configuration: a development server on
// port 8080 with the sample graph, in-memory reports, rate limiting on,
// and no stream transport.
func Default() *Config {
	return &Config{
		Env: EnvDevelopment,
		Server: ServerConfig{
			Port:         8080,
			MaxBodyBytes: 1 << 20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Graph: GraphConfig{
			LoadSample: true,
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
			DataDir: "./data",
		},
		Stream: StreamConfig{
			Transport:  TransportNone,
			BufferSize: 1000,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 100,
			Burst:             200,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{},
		},
	}
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
