// Command ripplegraph-server runs the cascade analysis HTTP server:
// REST and GraphQL APIs, a websocket event feed, and an optional PUB
// socket stream, backed by a pluggable report store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/cascadelab/ripplegraph/pkg/api"
	"github.com/cascadelab/ripplegraph/pkg/api/middleware"
	"github.com/cascadelab/ripplegraph/pkg/config"
	"github.com/cascadelab/ripplegraph/pkg/engine"
	"github.com/cascadelab/ripplegraph/pkg/graph"
	"github.com/cascadelab/ripplegraph/pkg/health"
	"github.com/cascadelab/ripplegraph/pkg/logging"
	"github.com/cascadelab/ripplegraph/pkg/metrics"
	"github.com/cascadelab/ripplegraph/pkg/modes"
	"github.com/cascadelab/ripplegraph/pkg/pubsub"
	"github.com/cascadelab/ripplegraph/pkg/reports"
	"github.com/cascadelab/ripplegraph/pkg/server"
	"github.com/cascadelab/ripplegraph/pkg/stream"
)

// Version is overridden at build time via -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: ripplegraph.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)

	logger.Info("ripplegraph server starting",
		logging.String("version", Version),
		logging.String("env", cfg.Env),
		logging.String("addr", cfg.Server.Addr()))

	if err := run(*configPath, cfg, logger); err != nil {
		logger.Error("server failed", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("server exited")
}

func run(configPath string, cfg *config.Config, logger *logging.JSONLogger) error {
	ctx := context.Background()

	// Dependency graph
	graphs := graph.NewStore(logger)
	switch {
	case cfg.Graph.File != "":
		snap, err := graphs.LoadFile(cfg.Graph.File)
		if err != nil {
			return fmt.Errorf("load graph %s: %w", cfg.Graph.File, err)
		}
		logger.Info("graph loaded",
			logging.String("file", cfg.Graph.File),
			logging.Int("nodes", snap.NodeCount()),
			logging.Int("edges", snap.EdgeCount()))
	case cfg.Graph.LoadSample:
		snap, err := graphs.LoadSample()
		if err != nil {
			return fmt.Errorf("load sample graph: %w", err)
		}
		logger.Info("sample graph loaded",
			logging.Int("nodes", snap.NodeCount()),
			logging.Int("edges", snap.EdgeCount()))
	default:
		logger.Warn("no graph configured, load one via the API before analyzing")
	}

	registry := modes.NewRegistry()

	// Report store
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("store close failed", logging.Error(err))
		}
	}()

	var journal *reports.Journal
	if cfg.Storage.JournalEnabled {
		journal, err = reports.OpenJournal(cfg.Storage.JournalDir())
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if err := journal.Close(); err != nil {
				logger.Warn("journal close failed", logging.Error(err))
			}
		}()
	}

	var archiver *reports.Archiver
	if cfg.Storage.Archive.Enabled() {
		archiver, err = reports.NewArchiver(ctx, reports.ArchiveConfig{
			Bucket:     cfg.Storage.Archive.Bucket,
			Prefix:     cfg.Storage.Archive.Prefix,
			Region:     cfg.Storage.Archive.Region,
			Passphrase: cfg.Storage.Archive.Passphrase,
		}, logger)
		if err != nil {
			return fmt.Errorf("init archive: %w", err)
		}
	}

	bus := pubsub.NewBus()
	defer bus.Shutdown()

	metricsReg := metrics.NewRegistry()

	updater := server.NewSystemMetricsUpdater(metricsReg, 0)
	updater.Start()
	defer updater.Stop()

	eng, err := engine.New(engine.Config{
		Graphs:   graphs,
		Modes:    registry,
		Store:    store,
		Journal:  journal,
		Archiver: archiver,
		Bus:      bus,
		Metrics:  metricsReg,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	// Optional PUB socket feed for external subscribers
	var publisher *stream.Publisher
	if cfg.Stream.Enabled() {
		publisher, err = openPublisher(cfg.Stream, logger)
		if err != nil {
			return fmt.Errorf("init stream publisher: %w", err)
		}
		if err := publisher.Start(); err != nil {
			return fmt.Errorf("start stream publisher: %w", err)
		}
		defer func() {
			if err := publisher.Stop(); err != nil {
				logger.Warn("stream publisher stop failed", logging.Error(err))
			}
		}()

		bridge := stream.NewBridge(bus, publisher, logger)
		if err := bridge.Start(); err != nil {
			return fmt.Errorf("start stream bridge: %w", err)
		}
		defer bridge.Stop()

		logger.Info("stream publisher started",
			logging.String("transport", cfg.Stream.Transport),
			logging.String("address", cfg.Stream.Address))
	}

	checker := newHealthChecker(eng, store, publisher)

	apiServer, err := api.NewServer(api.Config{
		Engine:          eng,
		Bus:             bus,
		Health:          checker,
		Metrics:         metricsReg,
		Logger:          logger,
		CORS:            corsConfig(cfg, logger),
		RateLimit:       rateLimitConfig(cfg),
		TrustedProxies:  middleware.ParseTrustedProxies(cfg.Server.TrustedProxies),
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		GraphQLMaxDepth: cfg.Server.GraphQLMaxDepth,
		TLSEnabled:      cfg.Server.TLSEnabled(),
		Version:         Version,
	})
	if err != nil {
		return fmt.Errorf("init api server: %w", err)
	}
	defer apiServer.Close()

	gs := server.NewGracefulServer(cfg.Server.Addr(), apiServer.Handler(), logger)
	gs.SetConfigReloadFunc(func() error {
		reloaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		// Only the log level can change at runtime
		logger.SetLevel(logging.ParseLevel(reloaded.Logging.Level))
		logger.Info("log level applied", logging.String("level", reloaded.Logging.Level))
		return nil
	})

	if cfg.Server.TLSEnabled() {
		return gs.StartTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
	}
	return gs.Start()
}

func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (reports.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return reports.OpenSQLite(cfg.Storage.SQLitePath(), logger)
	case config.BackendPostgres:
		return reports.NewPGStore(ctx, cfg.Storage.DatabaseURL, logger)
	default:
		return reports.NewMemoryStore(), nil
	}
}

func openPublisher(cfg config.StreamConfig, logger logging.Logger) (*stream.Publisher, error) {
	sc := stream.Config{Address: cfg.Address, BufferSize: cfg.BufferSize}
	if cfg.Transport == config.TransportZMQ {
		return stream.NewZMQPublisher(sc, logger)
	}
	return stream.NewNNGPublisher(sc, logger)
}

func newHealthChecker(eng *engine.Engine, store reports.Store, publisher *stream.Publisher) *health.HealthChecker {
	checker := health.NewHealthChecker()

	checker.RegisterCheck("graph", health.GraphCheck(func() (bool, int, int) {
		stats, err := eng.GraphStats()
		if err != nil {
			return false, 0, 0
		}
		return true, stats.NodeCount, stats.EdgeCount
	}))
	checker.RegisterCheck("modes", health.ModeCheck(func() int {
		return len(eng.CascadeModes()) + len(eng.SimulationModes())
	}))
	checker.RegisterCheck("store", health.StoreCheck(storePing(store)))
	if publisher != nil {
		checker.RegisterCheck("stream", health.StreamCheck(func() (bool, bool) {
			return true, publisher.Running()
		}))
	}

	// Readiness gates on the store; a server without a graph can still
	// accept one via the API.
	checker.RegisterReadinessCheck("store", health.StoreCheck(storePing(store)))

	checker.RegisterLivenessCheck("memory", health.MemoryCheck(func() (uint64, uint64) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return m.Alloc, m.Sys
	}))

	return checker
}

func storePing(store reports.Store) func() error {
	if pg, ok := store.(*reports.PGStore); ok {
		return func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pg.Ping(ctx)
		}
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := store.ListReports(ctx, 1)
		return err
	}
}

func corsConfig(cfg *config.Config, logger logging.Logger) *middleware.CORSConfig {
	cc := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) == 0 {
		return cc
	}

	cc.AllowedOrigins = cfg.CORS.AllowedOrigins
	cc.AllowCredentials = cfg.CORS.AllowCredentials
	for _, o := range cc.AllowedOrigins {
		if o == "*" {
			logger.Warn("cors allows all origins, not recommended for production")
			break
		}
	}
	return cc
}

func rateLimitConfig(cfg *config.Config) *middleware.RateLimitConfig {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	rl := middleware.DefaultRateLimitConfig()
	rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
	rl.BurstSize = cfg.RateLimit.Burst
	return rl
}
