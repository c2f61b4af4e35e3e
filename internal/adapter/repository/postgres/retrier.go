package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/metrics"
)

// PostgreSQL error codes for retryable errors.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

// Retrier implements usecase.Retrier with exponential backoff.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// RetrierOption configures a Retrier.
type RetrierOption func(*Retrier)

// WithMaxRetries sets how many times an operation is re-run after the first attempt.
func WithMaxRetries(n int) RetrierOption {
	return func(r *Retrier) { r.maxRetries = n }
}

// WithRetryLogger sets the logger used for retry warnings.
func WithRetryLogger(logger zerolog.Logger) RetrierOption {
	return func(r *Retrier) { r.logger = logger }
}

// WithRetryMetrics counts retries by reason.
func WithRetryMetrics(m *metrics.Metrics) RetrierOption {
	return func(r *Retrier) { r.metrics = m }
}

// NewRetrier creates a new PostgreSQL retrier with default settings.
func NewRetrier(opts ...RetrierOption) *Retrier {
	r := &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retry executes an operation with exponential backoff on retryable errors.
// When retries run out the last error is returned wrapped in domain.ErrConcurrency.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	err := backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		reason, ok := retryReason(err)
		if !ok {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(exhausted(err))
		}

		if r.metrics != nil {
			r.metrics.DBRetries.WithLabelValues(reason).Inc()
		}
		r.logger.Warn().
			Err(err).
			Int("retry", retryCount).
			Str("reason", reason).
			Msg("retryable database error, retrying")

		return err
	}, backoff.WithContext(b, ctx))

	// Backoff gave up on elapsed time or context before the retry budget ran out.
	if err != nil {
		if _, ok := retryReason(err); ok {
			return exhausted(err)
		}
	}
	return err
}

func exhausted(err error) error {
	if errors.Is(err, domain.ErrConcurrency) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrConcurrency, err)
}

// retryReason classifies err as retryable and names the reason for metrics.
func retryReason(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock:
			return "deadlock", true
		case pgErrSerializationFailure:
			return "serialization_failure", true
		}
	}
	if domain.IsRetryable(err) {
		return "stale_version", true
	}
	return "", false
}
