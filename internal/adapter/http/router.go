package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dairycoop/dairyledger/internal/adapter/http/handler"
	"github.com/dairycoop/dairyledger/internal/adapter/http/middleware"
	"github.com/dairycoop/dairyledger/internal/infrastructure/metrics"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler       *handler.LedgerHandler
	VoucherHandler      *handler.VoucherHandler
	BankTransferHandler *handler.BankTransferHandler
	HealthHandler       *handler.HealthHandler

	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
	MetricsGatherer  prometheus.Gatherer
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	gatherer := cfg.MetricsGatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Ledgers
		r.Route("/ledgers", func(r chi.Router) {
			r.Post("/", cfg.LedgerHandler.Create)
			r.Get("/", cfg.LedgerHandler.List)
			r.Get("/{id}", cfg.LedgerHandler.Get)
			r.Get("/{id}/postings", cfg.LedgerHandler.ListPostings)
			r.Get("/{id}/reconciliation", cfg.LedgerHandler.Reconcile)
		})
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)

		// Vouchers
		r.Route("/vouchers", func(r chi.Router) {
			r.Post("/", cfg.VoucherHandler.Create)
			r.Get("/", cfg.VoucherHandler.List)
			r.Get("/{id}", cfg.VoucherHandler.Get)
			r.Post("/{id}/reverse", cfg.VoucherHandler.Reverse)
		})

		// Bank transfers
		r.Route("/bank-transfers", func(r chi.Router) {
			r.Post("/retrieve", cfg.BankTransferHandler.Retrieve)
			r.Post("/", cfg.BankTransferHandler.Apply)
			r.Get("/", cfg.BankTransferHandler.List)
			r.Get("/{id}", cfg.BankTransferHandler.Get)
			r.Get("/{id}/events", cfg.BankTransferHandler.Events)
			r.Post("/{id}/cancel", cfg.BankTransferHandler.Cancel)
			r.Post("/{id}/complete", cfg.BankTransferHandler.Complete)
		})
	})

	return r
}
