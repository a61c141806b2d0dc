// Package router provides HTTP routing configuration using Chi.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remiblancher/qsign/internal/api/handler"
	"github.com/remiblancher/qsign/internal/api/middleware"
	"github.com/remiblancher/qsign/internal/logging"
	"github.com/remiblancher/qsign/internal/metrics"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// Config holds router configuration.
type Config struct {
	Version string

	// Service runs every crypto operation. Required.
	Service *crypto.Service

	// Metrics enables request metrics and GET /metrics when set.
	Metrics *metrics.Metrics

	// Logger receives request and panic logs. Nil discards them.
	Logger *slog.Logger

	// CORSOrigins lists allowed origins. Empty allows any origin.
	CORSOrigins []string
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	// Health endpoints (always enabled)
	healthHandler := handler.NewHealthHandler(cfg.Version, cfg.Service)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	keyHandler := handler.NewKeyHandler(cfg.Service)
	signatureHandler := handler.NewSignatureHandler(cfg.Service)
	digestHandler := handler.NewDigestHandler(cfg.Service)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/keys", func(r chi.Router) {
			r.Post("/generate", keyHandler.Generate)
			r.Post("/info", keyHandler.Info)
		})

		r.Post("/sign", signatureHandler.Sign)
		r.Post("/verify", signatureHandler.Verify)
		r.Post("/digest", digestHandler.Digest)
	})

	return r
}
