package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/domain"
)

// LedgerRepository defines data access for ledgers.
type LedgerRepository interface {
	// Create inserts a ledger. A name clash with an active ledger returns domain.ErrDuplicateLedgerName.
	Create(ctx context.Context, tx Transaction, ledger *domain.Ledger) error
	// Ensure inserts the ledger unless an active one with the same name exists,
	// then returns the stored row locked for update.
	Ensure(ctx context.Context, tx Transaction, ledger *domain.Ledger) (*domain.Ledger, error)
	GetByID(ctx context.Context, id string) (*domain.Ledger, error)
	// GetByIDsForUpdate locks the rows in the order of ids. Missing ids are omitted.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Ledger, error)
	// UpdateBalance writes the ledger's balance and version when the stored
	// version still equals expectedVersion, otherwise domain.ErrStaleLedgerVersion.
	UpdateBalance(ctx context.Context, tx Transaction, ledger *domain.Ledger, expectedVersion int64) error
	List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Ledger, error)
}

// PostingRepository defines data access for ledger posting history.
type PostingRepository interface {
	Create(ctx context.Context, tx Transaction, posting *domain.LedgerPosting) error
	ListByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]*domain.LedgerPosting, error)
	// NetChanges returns every net change of the ledger in posting order.
	NetChanges(ctx context.Context, ledgerID string) ([]decimal.Decimal, error)
	// SumNetChange is the sum of all postings across all ledgers.
	SumNetChange(ctx context.Context) (decimal.Decimal, error)
}

// VoucherTotals are ledger-wide voucher sums used by the consistency check.
type VoucherTotals struct {
	TotalDebit         decimal.Decimal
	TotalCredit        decimal.Decimal
	VoucherCount       int64
	UnbalancedVouchers int64
}

// VoucherRepository defines data access for vouchers and their entries.
type VoucherRepository interface {
	// Create inserts the voucher with its entries. A second reversal of the
	// same voucher returns domain.ErrVoucherAlreadyReversed.
	Create(ctx context.Context, tx Transaction, voucher *domain.Voucher) error
	GetByID(ctx context.Context, id string) (*domain.Voucher, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Voucher, error)
	// HasReversal reports whether a voucher reversing id exists.
	HasReversal(ctx context.Context, tx Transaction, id string) (bool, error)
	List(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error)
	Totals(ctx context.Context) (VoucherTotals, error)
}

// SequenceRepository allocates gap-free counters.
type SequenceRepository interface {
	// Next atomically increments the counter of (scope, period) and returns the new value.
	Next(ctx context.Context, tx Transaction, scope, period string) (int64, error)
}

// BankTransferRepository defines data access for bank transfer batches.
type BankTransferRepository interface {
	Create(ctx context.Context, tx Transaction, batch *domain.BankTransferBatch) error
	// Update writes status fields and per-detail transfer statuses.
	Update(ctx context.Context, tx Transaction, batch *domain.BankTransferBatch) error
	GetByID(ctx context.Context, id string) (*domain.BankTransferBatch, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.BankTransferBatch, error)
	List(ctx context.Context, filter domain.BatchFilter) ([]*domain.BankTransferBatch, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops key so the request can be retried after a failure.
	Release(ctx context.Context, key string) error
}
