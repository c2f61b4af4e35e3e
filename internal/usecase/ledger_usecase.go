package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/metrics"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// LedgerUseCase handles the chart of accounts and ledger-wide checks.
type LedgerUseCase struct {
	txManager   TransactionManager
	ledgerRepo  LedgerRepository
	postingRepo PostingRepository
	voucherRepo VoucherRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	ledgerRepo LedgerRepository,
	postingRepo PostingRepository,
	voucherRepo VoucherRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		ledgerRepo:  ledgerRepo,
		postingRepo: postingRepo,
		voucherRepo: voucherRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		now:         utcNow,
	}
}

// WithMetrics records ledger metrics.
func (uc *LedgerUseCase) WithMetrics(m *metrics.Metrics) *LedgerUseCase {
	uc.metrics = m
	return uc
}

// CreateLedgerInput represents input for creating a ledger.
type CreateLedgerInput struct {
	Name           string
	Classification domain.Classification
	OpeningBalance decimal.Decimal
	OpeningSide    domain.BalanceSide
}

// CreateLedger creates a ledger whose current balance equals its opening balance.
func (uc *LedgerUseCase) CreateLedger(ctx context.Context, input CreateLedgerInput) (*domain.Ledger, error) {
	now := uc.now()

	ledger, err := domain.NewLedger(uc.idGen.Generate(), input.Name, input.Classification, input.OpeningBalance, input.OpeningSide, now)
	if err != nil {
		return nil, err
	}

	err = inTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
		if err := uc.ledgerRepo.Create(ctx, tx, ledger); err != nil {
			return err
		}

		return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   ledger.ID,
			AggregateType: domain.AggregateTypeLedger,
			EventType:     domain.EventTypeLedgerCreated,
			Payload: domain.MarshalState(domain.LedgerCreatedEvent{
				LedgerID:       ledger.ID,
				Name:           ledger.Name,
				Classification: string(ledger.Classification),
				OpeningBalance: ledger.OpeningBalance.String(),
				OpeningSide:    string(ledger.OpeningSide),
			}),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LedgersCreated.Inc()
	}

	return ledger, nil
}

// EnsureLedgerTx returns the active ledger called name, creating it with a
// zero opening balance when absent.
func (uc *LedgerUseCase) EnsureLedgerTx(ctx context.Context, tx Transaction, name string, class domain.Classification) (*domain.Ledger, error) {
	candidate, err := domain.NewLedger(uc.idGen.Generate(), name, class, decimal.Zero, "", uc.now())
	if err != nil {
		return nil, err
	}

	return uc.ledgerRepo.Ensure(ctx, tx, candidate)
}

// GetLedger retrieves a ledger by ID.
func (uc *LedgerUseCase) GetLedger(ctx context.Context, id string) (*domain.Ledger, error) {
	return uc.ledgerRepo.GetByID(ctx, id)
}

// ListLedgers lists ledgers with optional status and classification filters.
func (uc *LedgerUseCase) ListLedgers(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Ledger, error) {
	limit, offset, err := domain.ValidatePagination(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	if filter.Classification != "" && !filter.Classification.IsValid() {
		return nil, domain.ErrInvalidClassification
	}
	filter.Limit, filter.Offset = limit, offset

	return uc.ledgerRepo.List(ctx, filter)
}

// ListPostingsInput represents input for listing a ledger's postings.
type ListPostingsInput struct {
	LedgerID string
	Limit    int
	Offset   int
}

// ListPostings returns the posting history of a ledger, oldest first.
func (uc *LedgerUseCase) ListPostings(ctx context.Context, input ListPostingsInput) ([]*domain.LedgerPosting, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	if _, err := uc.ledgerRepo.GetByID(ctx, input.LedgerID); err != nil {
		return nil, err
	}

	return uc.postingRepo.ListByLedger(ctx, input.LedgerID, limit, offset)
}

// ReconciliationResult compares a stored balance with its replayed value.
type ReconciliationResult struct {
	LedgerID        string
	RecordedBalance decimal.Decimal
	RecordedSide    domain.BalanceSide
	ReplayedBalance decimal.Decimal
	ReplayedSide    domain.BalanceSide
	Difference      decimal.Decimal
	PostingCount    int
	IsReconciled    bool
	LastChecked     time.Time
}

// ReconcileLedger replays every posting from the opening balance and compares
// the result with the stored balance.
func (uc *LedgerUseCase) ReconcileLedger(ctx context.Context, ledgerID string) (*ReconciliationResult, error) {
	ledger, err := uc.ledgerRepo.GetByID(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	changes, err := uc.postingRepo.NetChanges(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	balance, side := ledger.Replay(changes)
	diff := ledger.CurrentBalance.Sub(balance)

	return &ReconciliationResult{
		LedgerID:        ledger.ID,
		RecordedBalance: ledger.CurrentBalance,
		RecordedSide:    ledger.CurrentSide,
		ReplayedBalance: balance,
		ReplayedSide:    side,
		Difference:      diff,
		PostingCount:    len(changes),
		IsReconciled:    diff.IsZero() && side == ledger.CurrentSide,
		LastChecked:     uc.now(),
	}, nil
}

// ConsistencyReport is the outcome of a ledger-wide check.
type ConsistencyReport struct {
	TotalDebit         decimal.Decimal
	TotalCredit        decimal.Decimal
	Difference         decimal.Decimal
	PostingNetChange   decimal.Decimal
	VoucherCount       int64
	UnbalancedVouchers int64
	Consistent         bool
}

// CheckConsistency verifies that all vouchers together balance, that no single
// voucher is out of tolerance, and that posting history matches voucher totals.
// It returns the report together with ErrInconsistentLedger when a check fails.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totals, err := uc.voucherRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	postingNet, err := uc.postingRepo.SumNetChange(ctx)
	if err != nil {
		return nil, err
	}

	diff := totals.TotalDebit.Sub(totals.TotalCredit)
	report := &ConsistencyReport{
		TotalDebit:         totals.TotalDebit,
		TotalCredit:        totals.TotalCredit,
		Difference:         diff,
		PostingNetChange:   postingNet,
		VoucherCount:       totals.VoucherCount,
		UnbalancedVouchers: totals.UnbalancedVouchers,
	}

	// Each voucher may be off by the tolerance, so the global sum may be too.
	allowed := domain.BalanceTolerance.Mul(decimal.NewFromInt(totals.VoucherCount))
	report.Consistent = totals.UnbalancedVouchers == 0 &&
		diff.Abs().LessThanOrEqual(allowed) &&
		postingNet.Equal(diff)

	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
