// Package server provides the HTTP serving lifecycle. GracefulServer
// wraps net/http with signal-driven shutdown and a SIGHUP configuration
// reload hook, and SystemMetricsUpdater feeds runtime statistics into
// the metrics registry while the process runs.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// ConfigReloadFunc is invoked when SIGHUP is received. Implementations
// re-read configuration and apply whatever can change at runtime (log
// level, rate limits). Returning an error keeps the old configuration.
type ConfigReloadFunc func() error

// GracefulServer wraps http.Server with coordinated shutdown. Start
// blocks until the server stops, so deferred cleanup in the caller runs
// after a SIGINT or SIGTERM instead of being skipped by os.Exit.
type GracefulServer struct {
	server       *http.Server
	logger       logging.Logger
	shutdownCh   chan struct{}
	shutdownOnce sync.Once

	configMu       sync.RWMutex
	configReloadFn ConfigReloadFunc
}

// NewGracefulServer creates a server for the given address and handler.
// A nil logger is replaced with a no-op logger.
func NewGracefulServer(addr string, handler http.Handler, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:           addr,
			Handler:        handler,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
}

// Start listens on the configured address and blocks until the server
// is shut down. A clean shutdown returns nil.
func (gs *GracefulServer) Start() error {
	go gs.handleSignals()

	gs.logger.Info("http server listening", logging.String("addr", gs.server.Addr))
	if err := gs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartTLS is Start with TLS enabled using the given certificate pair.
func (gs *GracefulServer) StartTLS(certFile, keyFile string) error {
	go gs.handleSignals()

	gs.logger.Info("https server listening", logging.String("addr", gs.server.Addr))
	if err := gs.server.ListenAndServeTLS(certFile, keyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting new connections and waits up to timeout for
// in-flight requests to finish. Safe to call more than once; only the
// first call performs the shutdown.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("shutting down http server", logging.Duration("timeout", timeout))
		err = gs.server.Shutdown(ctx)
	})
	return err
}

func (gs *GracefulServer) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				gs.logger.Info("shutdown signal received", logging.String("signal", sig.String()))
				if err := gs.Shutdown(30 * time.Second); err != nil {
					gs.logger.Error("graceful shutdown failed", logging.Error(err))
				}
				return
			case syscall.SIGHUP:
				gs.logger.Info("reload signal received")
				if err := gs.ReloadConfig(); err != nil {
					gs.logger.Warn("configuration reload failed", logging.Error(err))
				}
			}
		case <-gs.shutdownCh:
			return
		}
	}
}

// IsShuttingDown reports whether shutdown has started.
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that is closed when shutdown starts.
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetConfigReloadFunc registers the function invoked on SIGHUP.
func (gs *GracefulServer) SetConfigReloadFunc(fn ConfigReloadFunc) {
	gs.configMu.Lock()
	defer gs.configMu.Unlock()
	gs.configReloadFn = fn
}

// ReloadConfig runs the registered reload function. Without one it logs
// and returns nil.
func (gs *GracefulServer) ReloadConfig() error {
	gs.configMu.RLock()
	fn := gs.configReloadFn
	gs.configMu.RUnlock()

	if fn == nil {
		gs.logger.Debug("no configuration reload function registered")
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	gs.logger.Info("configuration reloaded")
	return nil
}
