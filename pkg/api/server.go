// Package api exposes the analysis engine over HTTP: a JSON REST surface
// under /api/v1, a GraphQL endpoint, a websocket event feed, and the
// health and metrics endpoints. All write paths go through the REST
// surface; GraphQL stays read-only.
package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cascadelab/ripplegraph/pkg/api/middleware"
	"github.com/cascadelab/ripplegraph/pkg/change"
	"github.com/cascadelab/ripplegraph/pkg/engine"
	"github.com/cascadelab/ripplegraph/pkg/graph"
	"github.com/cascadelab/ripplegraph/pkg/graphql"
	"github.com/cascadelab/ripplegraph/pkg/health"
	"github.com/cascadelab/ripplegraph/pkg/logging"
	"github.com/cascadelab/ripplegraph/pkg/metrics"
	"github.com/cascadelab/ripplegraph/pkg/modes"
	"github.com/cascadelab/ripplegraph/pkg/pubsub"
	"github.com/cascadelab/ripplegraph/pkg/reports"
)

// defaultMaxBodyBytes caps request bodies at 1 MiB.
const defaultMaxBodyBytes = 1 << 20

// Config wires a Server's collaborators. Engine is required; everything
// else has a working default.
type Config struct {
	Engine          *engine.Engine
	Bus             *pubsub.Bus
	Health          *health.HealthChecker
	Metrics         *metrics.Registry
	Logger          logging.Logger
	CORS            *middleware.CORSConfig
	RateLimit       *middleware.RateLimitConfig
	TrustedProxies  []*net.IPNet
	MaxBodyBytes    int64
	GraphQLMaxDepth int
	TLSEnabled      bool
	Version         string
}

// Server is the HTTP API server.
type Server struct {
	engine         *engine.Engine
	bus            *pubsub.Bus
	checker        *health.HealthChecker
	metrics        *metrics.Registry
	logger         logging.Logger
	graphqlHandler *graphql.GraphQLHandler
	limiter        *middleware.RateLimiter
	clientID       middleware.ClientIDFunc
	cors           *middleware.CORSConfig
	upgrader       websocket.Upgrader
	maxBodyBytes   int64
	tlsEnabled     bool
	version        string
	startTime      time.Time
}

// NewServer creates an API server around an engine.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, errors.New("api: engine is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	checker := cfg.Health
	if checker == nil {
		checker = health.NewHealthChecker()
	}
	reg := cfg.Metrics
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	cors := cfg.CORS
	if cors == nil {
		cors = middleware.DefaultCORSConfig()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit != nil {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	var graphqlHandler *graphql.GraphQLHandler
	schema, err := graphql.GenerateSchema(cfg.Engine)
	if err != nil {
		logger.Warn("graphql schema generation failed, endpoint disabled", logging.Error(err))
	} else {
		graphqlHandler = graphql.NewGraphQLHandler(schema, cfg.GraphQLMaxDepth)
	}

	s := &Server{
		engine:         cfg.Engine,
		bus:            cfg.Bus,
		checker:        checker,
		metrics:        reg,
		logger:         logger,
		graphqlHandler: graphqlHandler,
		limiter:        limiter,
		clientID:       middleware.ClientIP(cfg.TrustedProxies),
		cors:           cors,
		maxBodyBytes:   maxBody,
		tlsEnabled:     cfg.TLSEnabled,
		version:        version,
		startTime:      time.Now(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			return cors.OriginAllowed(origin)
		},
	}
	return s, nil
}

// Handler returns the complete HTTP handler: all routes wrapped in the
// middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health and monitoring
	mux.HandleFunc("/health", s.checker.HTTPHandler())
	mux.HandleFunc("/health/ready", s.checker.ReadinessHandler())
	mux.HandleFunc("/health/live", s.checker.LivenessHandler())
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/version", s.handleVersion)

	// GraphQL and live events
	mux.HandleFunc("/graphql", s.handleGraphQL)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Analyses
	mux.HandleFunc("/api/v1/analyses", s.handleAnalyses)
	mux.HandleFunc("/api/v1/analyses/", s.handleAnalysis) // /api/v1/analyses/{id}

	// Simulations
	mux.HandleFunc("/api/v1/simulations", s.handleSimulations)
	mux.HandleFunc("/api/v1/simulations/", s.handleSimulation) // /api/v1/simulations/{id}

	// Graph
	mux.HandleFunc("/api/v1/graph/stats", s.handleGraphStats)
	mux.HandleFunc("/api/v1/graph/nodes", s.handleGraphNodes)
	mux.HandleFunc("/api/v1/graph/sample", s.handleGraphSample)
	mux.HandleFunc("/api/v1/graph/load", s.handleGraphLoad)

	// Catalogs
	mux.HandleFunc("/api/v1/modes", s.handleModes)
	mux.HandleFunc("/api/v1/industries", s.handleIndustries)

	// Innermost first; requests flow through the chain in reverse order:
	// recovery, request ID, logging, security headers, CORS, body cap,
	// rate limit, metrics, routes.
	handler := http.Handler(mux)
	handler = middleware.Metrics(s.metrics)(handler)
	handler = middleware.RateLimit(s.limiter, s.clientID, nil)(handler)
	handler = middleware.BodySizeLimit(s.maxBodyBytes)(handler)
	handler = middleware.CORS(s.cors)(handler)
	handler = middleware.SecurityHeaders(&middleware.SecurityHeadersConfig{TLSEnabled: s.tlsEnabled})(handler)
	handler = middleware.Logging(s.logger, middleware.GetRequestID)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.PanicRecovery(s.logger)(handler)
	return handler
}

// Close releases server-owned background resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() {
			s.respondJSON(w, http.StatusOK, VersionResponse{
				Version: s.version,
				Uptime:  time.Since(s.startTime).String(),
			})
		}).
		NotAllowed()
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if s.graphqlHandler == nil {
		s.respondError(w, http.StatusServiceUnavailable, "GraphQL endpoint not available")
		return
	}
	s.graphqlHandler.ServeHTTP(w, r)
}

// Response helpers

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response failed", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondEngineError maps the engine's typed errors onto HTTP statuses.
// Anything unrecognized is treated as internal and sanitized.
func (s *Server) respondEngineError(w http.ResponseWriter, err error, operation string) {
	var verr *change.ValidationError
	switch {
	case errors.As(err, &verr):
		s.respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: "validation failed",
			Code:    http.StatusBadRequest,
			Fields:  verr.Fields,
		})
	case errors.Is(err, graph.ErrUnavailable):
		s.respondError(w, http.StatusConflict, "no graph loaded, load one via /api/v1/graph/sample or /api/v1/graph/load")
	case errors.Is(err, modes.ErrUnknownMode), errors.Is(err, modes.ErrUnknownIndustry):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, reports.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, operation))
	}
}
