// Package api provides the HTTP server for the cutout background-removal
// service.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/slipway-dev/slipway/pkg/svc/matting"
)

const (
	// DefaultMaxImageBytes bounds the decoded predict payload at 10 MiB.
	DefaultMaxImageBytes = 10 << 20

	defaultRequestTimeout = 10 * time.Second
)

// ServerOption configures the cutout API server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	address       string
	middlewares   []func(http.Handler) http.Handler
	remover       matting.Remover
	predictDelay  time.Duration
	maxImageBytes int64
	logger        *logrus.Logger
}

// WithAddress sets the listen address.
func WithAddress(address string) ServerOption {
	return func(cfg *serverConfig) {
		cfg.address = address
	}
}

// WithMiddlewares appends middleware to the router chain.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithRemover replaces the background-removal engine.
func WithRemover(remover matting.Remover) ServerOption {
	return func(cfg *serverConfig) {
		cfg.remover = remover
	}
}

// WithPredictDelay inserts an artificial delay into the predict handler to
// demonstrate concurrent request handling.
func WithPredictDelay(delay time.Duration) ServerOption {
	return func(cfg *serverConfig) {
		cfg.predictDelay = delay
	}
}

// WithMaxImageBytes caps the decoded predict payload size.
func WithMaxImageBytes(limit int64) ServerOption {
	return func(cfg *serverConfig) {
		cfg.maxImageBytes = limit
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(cfg *serverConfig) {
		cfg.logger = logger
	}
}

// NewRouter builds the chi router with the default middleware chain and the
// four cutout routes.
func NewRouter(opts ...ServerOption) *chi.Mux {
	cfg := newServerConfig(opts...)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(cfg.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(defaultRequestTimeout))

	for _, mw := range cfg.middlewares {
		router.Use(mw)
	}

	handlers := &handler{
		remover:       cfg.remover,
		predictDelay:  cfg.predictDelay,
		maxImageBytes: cfg.maxImageBytes,
		logger:        cfg.logger,
	}

	router.Get("/", handlers.root)
	router.Get("/health", handlers.health)
	router.Get("/metadata", handlers.metadata)
	router.Post("/predict", handlers.predict)

	return router
}

// NewHTTPServer wraps the router in an http.Server with sane timeouts. The
// write timeout exceeds the request timeout so the timeout middleware can
// answer before the connection is cut.
func NewHTTPServer(opts ...ServerOption) *http.Server {
	cfg := newServerConfig(opts...)

	return &http.Server{
		Addr:         cfg.address,
		Handler:      NewRouter(opts...),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func newServerConfig(opts ...ServerOption) *serverConfig {
	cfg := &serverConfig{
		address:       ":8080",
		remover:       matting.NewChromaRemover(),
		maxImageBytes: DefaultMaxImageBytes,
		logger:        logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// requestLogger emits one structured line per request.
func requestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
			}).Info("request handled")
		})
	}
}
