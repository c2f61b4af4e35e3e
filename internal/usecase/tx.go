package usecase

import (
	"context"
	"time"

	"github.com/dairycoop/dairyledger/internal/domain"
)

// inTx runs fn inside a transaction bounded by DefaultTransactionTimeout and
// commits when fn succeeds. With a retrier the whole transaction is re-run on
// retryable conflicts.
func inTx(ctx context.Context, txManager TransactionManager, retrier Retrier, fn func(ctx context.Context, tx Transaction) error) error {
	attempt := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if retrier == nil {
		return attempt()
	}
	return retrier.Retry(ctx, attempt)
}

func actorFrom(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if id, ok := domain.ActorFromContext(ctx); ok {
		return id
	}
	return SystemUser
}

func utcNow() time.Time {
	return time.Now().UTC()
}
