package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	LedgersCreated prometheus.Counter

	// Voucher metrics
	VouchersPosted   *prometheus.CounterVec
	VouchersReversed prometheus.Counter
	VoucherAmount    prometheus.Histogram
	PostingDuration  prometheus.Histogram
	VoucherErrors    *prometheus.CounterVec

	// Bank transfer metrics
	BankTransfers            *prometheus.CounterVec
	BankTransferAmount       prometheus.Histogram
	BankTransferErrors       *prometheus.CounterVec
	BalanceRetrievalDuration prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries     *prometheus.CounterVec
	DBConnections prometheus.Gauge

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxFailures  prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		LedgersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "dairyledger_ledgers_created_total",
			Help: "Total number of ledgers created",
		}),

		// Voucher metrics
		VouchersPosted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dairyledger_vouchers_posted_total",
				Help: "Total number of vouchers posted by type",
			},
			[]string{"type"},
		),
		VouchersReversed: f.NewCounter(prometheus.CounterOpts{
			Name: "dairyledger_vouchers_reversed_total",
			Help: "Total number of vouchers reversed",
		}),
		VoucherAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dairyledger_voucher_amount",
			Help:    "Voucher totals",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000, 10000000},
		}),
		PostingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dairyledger_posting_duration_seconds",
			Help:    "Duration of voucher posting including commit",
			Buckets: prometheus.DefBuckets,
		}),
		VoucherErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dairyledger_voucher_errors_total",
				Help: "Total number of voucher errors by type",
			},
			[]string{"error_type"},
		),

		// Bank transfer metrics
		BankTransfers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dairyledger_bank_transfers_total",
				Help: "Bank transfer batch transitions by resulting status",
			},
			[]string{"status"},
		),
		BankTransferAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dairyledger_bank_transfer_amount",
			Help:    "Total transfer amount of applied batches",
			Buckets: []float64{1000, 10000, 100000, 1000000, 10000000, 100000000},
		}),
		BankTransferErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dairyledger_bank_transfer_errors_total",
				Help: "Total number of bank transfer errors by type",
			},
			[]string{"error_type"},
		),
		BalanceRetrievalDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dairyledger_balance_retrieval_duration_seconds",
			Help:    "Duration of producer balance retrieval",
			Buckets: prometheus.DefBuckets,
		}),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dairyledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dairyledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBRetries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dairyledger_db_retries_total",
				Help: "Transactions re-run after a serialization failure or deadlock",
			},
			[]string{"reason"},
		),
		DBConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "dairyledger_db_connections",
			Help: "Current number of acquired database connections",
		}),

		// Redis metrics
		RedisOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dairyledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dairyledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Outbox metrics
		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "dairyledger_outbox_published_total",
			Help: "Outbox events published",
		}),
		OutboxFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "dairyledger_outbox_failures_total",
			Help: "Outbox events that failed to publish",
		}),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dairyledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dairyledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
