package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"

	"github.com/ebspulse/ebspulse/core/infrastructure/config"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
	httpmiddleware "github.com/ebspulse/ebspulse/core/infrastructure/transport/http/middleware"
)

// Server represents the HTTP server
type Server struct {
	router          *chi.Mux
	server          *http.Server
	redis           *redis.Client
	port            string
	shutdownTimeout time.Duration
}

// NewServer creates the router with the shared middleware stack. When a Redis URL is
// configured the rate limit windows are shared through Redis.
func NewServer(cfg config.ServerConfig) (*Server, error) {
	port := cfg.Port
	if port == "" {
		port = config.Default().Server.Port
	}

	r := chi.NewRouter()

	r.Use(httpmiddleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.Tracing)
	r.Use(httpmiddleware.Metrics)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var redisClient *redis.Client
	if cfg.RateLimit > 0 {
		var counter httprate.LimitCounter
		if cfg.RateLimitRedis != "" {
			opts, err := redis.ParseURL(cfg.RateLimitRedis)
			if err != nil {
				return nil, fmt.Errorf("rate limit redis url: %w", err)
			}
			redisClient = redis.NewClient(opts)
			counter = httpmiddleware.NewRedisCounter(redisClient, "ebspulse:ratelimit:")
		}
		r.Use(httpmiddleware.RateLimitByIP(cfg.RateLimit, time.Minute, counter))
	}

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}

	return &Server{
		router: r,
		redis:  redisClient,
		server: &http.Server{
			Addr:              net.JoinHostPort("", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		port:            port,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Router returns the chi router
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Port returns the port the server listens on
func (s *Server) Port() string {
	return s.port
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) ListenAndServe() error {
	log := logging.New("http")
	log.Successf("HTTP server listening on http://127.0.0.1:%s", s.port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("HTTP server error: %v", err)
		return err
	}
	return nil
}

// Shutdown stops the server gracefully, force-closing it after the shutdown timeout
func (s *Server) Shutdown(ctx context.Context) error {
	log := logging.New("http")
	log.Infof("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if s.redis != nil {
		defer func() {
			if err := s.redis.Close(); err != nil {
				log.Warnf("Error closing rate limit store: %v", err)
			}
		}()
	}

	if err := s.server.Shutdown(ctx); err != nil {
		log.Errorf("Error shutting down HTTP server: %v", err)
		if closeErr := s.server.Close(); closeErr != nil {
			log.Errorf("Error force closing HTTP server: %v", closeErr)
		}
		return err
	}

	log.Infof("HTTP server stopped")
	return nil
}
