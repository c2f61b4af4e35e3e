package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultBalanceWorkers bounds concurrent producer lookups during balance retrieval.
	DefaultBalanceWorkers = 8

	// SystemUser is the actor recorded when the caller does not identify itself.
	SystemUser = "system"
)
