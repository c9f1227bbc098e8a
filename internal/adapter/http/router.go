package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/creditapproval/internal/adapter/http/handler"
	"github.com/iho/creditapproval/internal/adapter/http/middleware"
	"github.com/iho/creditapproval/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CustomerHandler *handler.CustomerHandler
	LoanHandler     *handler.LoanHandler
	IngestHandler   *handler.IngestHandler
	HealthHandler   *handler.HealthHandler

	Logger zerolog.Logger

	// Optional
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          middleware.RequestRecorder
	MetricsHandler   http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Post("/register", cfg.CustomerHandler.Register)
		r.Post("/check-eligibility", cfg.LoanHandler.CheckEligibility)
		r.Post("/create-loan", cfg.LoanHandler.Create)
		r.Get("/view-loan/{loan_id}", cfg.LoanHandler.Get)
		r.Get("/view-loans/{customer_id}", cfg.LoanHandler.ListByCustomer)
		r.Get("/credit-score/{customer_id}", cfg.LoanHandler.CreditScore)

		r.Post("/ingest", cfg.IngestHandler.Dispatch)
		r.Get("/ingest/{job_id}", cfg.IngestHandler.Get)
	})

	return r
}
