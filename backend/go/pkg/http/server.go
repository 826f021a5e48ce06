package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"NEF_Emulator/backend/go/internal/config"
	"NEF_Emulator/backend/go/pkg/circuitbreaker"
	"NEF_Emulator/backend/go/pkg/httpmiddleware"
	"NEF_Emulator/backend/go/pkg/ratelimiter"
)

// maxTrackedClients bounds the per-client limiter state.
const maxTrackedClients = 10000

// Middleware defines a function to wrap an http.Handler.
type Middleware func(http.Handler) http.Handler

// Server wraps the standard http.Server and puts the configured protection
// middleware (rate limiting, circuit breaking) in front of the application handler.
type Server struct {
	httpServer *http.Server
}

// ServerOption defines a function for configuring a Server.
type ServerOption func(*Server)

// WithAddress sets the address for the server to listen on.
func WithAddress(addr string) ServerOption {
	return func(s *Server) {
		s.httpServer.Addr = addr
	}
}

// WithReadHeaderTimeout bounds how long a client may take to send headers.
func WithReadHeaderTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.httpServer.ReadHeaderTimeout = d
	}
}

// NewServer creates a Server serving handler. Rate limiting and circuit breaking
// are applied when enabled in cfg.Middleware.
func NewServer(cfg *config.AppConfig, handler http.Handler, opts ...ServerOption) (*Server, error) {
	var middlewares []Middleware

	if cfg.Middleware.RateLimiter.Enabled {
		limiter, err := createRateLimiter(cfg.Middleware.RateLimiter)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		middlewares = append(middlewares, httpmiddleware.RateLimit(limiter, httpmiddleware.ClientIP))
	}

	if cfg.Middleware.CircuitBreaker.Enabled {
		breaker, err := createCircuitBreaker(cfg.Middleware.CircuitBreaker)
		if err != nil {
			return nil, fmt.Errorf("failed to create circuit breaker: %w", err)
		}
		middlewares = append(middlewares, httpmiddleware.CircuitBreak(breaker))
	}

	// The first middleware in the list is the outermost.
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.httpServer.Addr == "" {
		srv.httpServer.Addr = ":8080"
	}

	return srv, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server. It returns nil after a graceful Shutdown.
func (s *Server) ListenAndServe() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func createRateLimiter(cfg config.RateLimiterConfig) (ratelimiter.KeyedLimiter, error) {
	var factory ratelimiter.Factory

	switch cfg.Algorithm {
	case "", "tokenBucket":
		conf := cfg.TokenBucket
		if conf.Rate <= 0 || conf.Capacity <= 0 {
			return nil, fmt.Errorf("tokenBucket rate and capacity must be positive")
		}
		factory = func() ratelimiter.RateLimiter {
			return ratelimiter.NewTokenBucket(conf.Rate, conf.Capacity)
		}
	case "leakyBucket":
		conf := cfg.LeakyBucket
		if conf.Rate <= 0 || conf.Capacity <= 0 {
			return nil, fmt.Errorf("leakyBucket rate and capacity must be positive")
		}
		factory = func() ratelimiter.RateLimiter {
			return ratelimiter.NewLeakyBucket(conf.Rate, conf.Capacity)
		}
	case "fixedWindow":
		conf := cfg.FixedWindow
		window, err := time.ParseDuration(conf.Window)
		if err != nil {
			return nil, fmt.Errorf("invalid fixedWindow duration: %w", err)
		}
		factory = func() ratelimiter.RateLimiter {
			return ratelimiter.NewFixedWindowCounter(conf.Limit, window)
		}
	case "slidingLog":
		conf := cfg.SlidingLog
		window, err := time.ParseDuration(conf.Window)
		if err != nil {
			return nil, fmt.Errorf("invalid slidingLog duration: %w", err)
		}
		factory = func() ratelimiter.RateLimiter {
			return ratelimiter.NewSlidingWindowLog(conf.Limit, window)
		}
	case "slidingCounter":
		conf := cfg.SlidingCounter
		window, err := time.ParseDuration(conf.Window)
		if err != nil {
			return nil, fmt.Errorf("invalid slidingCounter duration: %w", err)
		}
		factory = func() ratelimiter.RateLimiter {
			return ratelimiter.NewSlidingWindowCounter(conf.Limit, window, conf.NumBuckets)
		}
	default:
		return nil, fmt.Errorf("unknown rate limiter algorithm: %s", cfg.Algorithm)
	}

	if !cfg.PerClient {
		return ratelimiter.Global{Limiter: factory()}, nil
	}
	return ratelimiter.NewPerKey(factory, maxTrackedClients)
}

func createCircuitBreaker(cfg config.CircuitBreakerConfig) (circuitbreaker.CircuitBreaker, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit breaker timeout duration: %w", err)
	}
	return circuitbreaker.New(cfg.FailureThreshold, cfg.SuccessThreshold, timeout), nil
}
