package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Config holds the HTTP server settings.
type Config struct {
	Port int `mapstructure:"port"`
	// RateLimit is the number of requests per second allowed per client IP.
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DefaultConfig returns the default server settings.
func DefaultConfig() Config {
	return Config{
		Port:            8000,
		RateLimit:       60.0 / 60.0,
		Burst:           10,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server exposes a Recommender over HTTP.
type Server struct {
	echo    *echo.Echo
	limiter *RateLimiter
	config  Config
	log     *slog.Logger
}

// New builds the echo instance with CORS, request logging, recovery and
// per-IP rate limiting on /recommend.
func New(recommender Recommender, config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				logger.Info("Request completed",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Int64("latency_ms", v.Latency.Milliseconds()))
			} else {
				logger.Error("Request failed",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Int64("latency_ms", v.Latency.Milliseconds()),
					slog.String("error", v.Error.Error()))
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	limiter := NewRateLimiter(rate.Limit(config.RateLimit), config.Burst)
	h := &handler{recommender: recommender, log: logger}

	e.GET("/", h.root)
	e.GET("/health", h.health)
	e.POST("/recommend", h.recommend, limiter.Middleware())

	return &Server{
		echo:    e,
		limiter: limiter,
		config:  config,
		log:     logger,
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	address := fmt.Sprintf(":%d", s.config.Port)
	s.log.Info("Starting server", slog.String("address", address))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("Shutting down server")
		s.limiter.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close stops the server immediately.
func (s *Server) Close() error {
	s.limiter.Stop()
	return s.echo.Close()
}
