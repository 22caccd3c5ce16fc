package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// RateLimitConfig configures per-client rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64       // Sustained request rate per client
	BurstSize         int           // Maximum burst size per client
	CleanupInterval   time.Duration // How often inactive clients are swept
	ClientExpiration  time.Duration // How long inactive clients are kept
	MaxClients        int           // Cap on tracked clients, prevents memory exhaustion
}

// DefaultRateLimitConfig returns sensible defaults for rate limiting.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
		CleanupInterval:   5 * time.Minute,
		ClientExpiration:  10 * time.Minute,
		MaxClients:        100000,
	}
}

// client pairs a token bucket with the time it last served a request. The
// limiter synchronizes itself; the mutex only guards lastSeen.
type client struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func (c *client) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *client) expiredAt(now time.Time, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.lastSeen) > ttl
}

// RateLimiter tracks a token bucket per client.
type RateLimiter struct {
	config   *RateLimitConfig
	clients  map[string]*client
	mu       sync.RWMutex
	stopChan chan struct{}
	log      logging.Logger
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
// A nil config selects the defaults.
func NewRateLimiter(config *RateLimitConfig, log logging.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	rl := &RateLimiter{
		config:   config,
		clients:  make(map[string]*client),
		stopChan: make(chan struct{}),
		log:      log,
	}

	go rl.cleanupLoop()

	return rl
}

// Allow reports whether a request from the given client should be served.
// Returns false when the client is over its rate or when the tracked-client
// cap has been reached.
func (rl *RateLimiter) Allow(clientID string) bool {
	c := rl.getClient(clientID)
	if c == nil {
		return false
	}

	c.touch(time.Now())
	return c.limiter.Allow()
}

// getClient gets or creates the bucket for a client. Returns nil when the
// client cap is reached and no bucket exists yet.
func (rl *RateLimiter) getClient(clientID string) *client {
	rl.mu.RLock()
	c, exists := rl.clients[clientID]
	count := len(rl.clients)
	rl.mu.RUnlock()

	if exists {
		return c
	}

	if rl.config.MaxClients > 0 && count >= rl.config.MaxClients {
		rl.log.Warn("rate limiter client cap reached, rejecting new client",
			logging.Int("max_clients", rl.config.MaxClients),
			logging.String("client", clientID),
		)
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Another request may have created the bucket while we upgraded the lock.
	if c, exists = rl.clients[clientID]; exists {
		return c
	}
	if rl.config.MaxClients > 0 && len(rl.clients) >= rl.config.MaxClients {
		return nil
	}

	c = &client{
		limiter:  rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize),
		lastSeen: time.Now(),
	}
	rl.clients[clientID] = c
	return c
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopChan:
			return
		}
	}
}

// cleanup removes clients that have been idle past their expiration. It
// collects candidates under the read lock and deletes under the write lock
// to keep contention with Allow low.
func (rl *RateLimiter) cleanup() {
	now := time.Now()
	ttl := rl.config.ClientExpiration
	expired := make([]string, 0)

	rl.mu.RLock()
	for id, c := range rl.clients {
		if c.expiredAt(now, ttl) {
			expired = append(expired, id)
		}
	}
	rl.mu.RUnlock()

	if len(expired) == 0 {
		return
	}

	rl.mu.Lock()
	for _, id := range expired {
		// Re-verify, the client may have come back between phases.
		if c, exists := rl.clients[id]; exists && c.expiredAt(now, ttl) {
			delete(rl.clients, id)
		}
	}
	rl.mu.Unlock()

	rl.log.Debug("rate limiter cleanup", logging.Count(len(expired)))
}

// Stop stops the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopChan)
}

// GetStats returns current rate limiter statistics.
func (rl *RateLimiter) GetStats() map[string]any {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	return map[string]any{
		"active_clients":      len(rl.clients),
		"requests_per_second": rl.config.RequestsPerSecond,
		"burst_size":          rl.config.BurstSize,
	}
}

// ClientIDFunc extracts a client identifier from a request.
type ClientIDFunc func(*http.Request) string

// RateLimit creates middleware that applies per-client rate limiting. The
// getClientID function extracts the client identifier from the request; the
// optional onLimited callback fires when a request is rejected. A nil
// limiter disables rate limiting.
func RateLimit(limiter *RateLimiter, getClientID ClientIDFunc, onLimited func(w http.ResponseWriter, r *http.Request, clientID string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientID := getClientID(r)

			if !limiter.Allow(clientID) {
				limiter.log.Warn("rate limit exceeded",
					logging.String("client", clientID),
					logging.String("path", r.URL.Path),
				)

				if onLimited != nil {
					onLimited(w, r, clientID)
				}

				w.Header().Set("Retry-After", "1")
				w.Header().Set("X-RateLimit-Limit", strconv.FormatFloat(limiter.config.RequestsPerSecond, 'f', 0, 64))
				http.Error(w, "Rate limit exceeded. Please retry after 1 second.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
