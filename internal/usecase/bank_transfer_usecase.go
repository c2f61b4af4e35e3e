package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/metrics"
)

// BankTransferUseCase computes producer payouts and posts them as batches.
type BankTransferUseCase struct {
	txManager   TransactionManager
	batchRepo   BankTransferRepository
	vouchers    *VoucherUseCase
	ledgers     *LedgerUseCase
	numbering   *NumberingService
	producers   ProducerDirectory
	payments    PaymentAggregateProvider
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
	companyCode string
	workers     int
	now         func() time.Time
}

// NewBankTransferUseCase creates a new BankTransferUseCase.
func NewBankTransferUseCase(
	txManager TransactionManager,
	batchRepo BankTransferRepository,
	vouchers *VoucherUseCase,
	ledgers *LedgerUseCase,
	numbering *NumberingService,
	producers ProducerDirectory,
	payments PaymentAggregateProvider,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	companyCode string,
) *BankTransferUseCase {
	return &BankTransferUseCase{
		txManager:   txManager,
		batchRepo:   batchRepo,
		vouchers:    vouchers,
		ledgers:     ledgers,
		numbering:   numbering,
		producers:   producers,
		payments:    payments,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		companyCode: companyCode,
		workers:     DefaultBalanceWorkers,
		now:         utcNow,
	}
}

// WithRetrier re-runs whole batch transactions on concurrency conflicts.
func (uc *BankTransferUseCase) WithRetrier(r Retrier) *BankTransferUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics records bank transfer metrics.
func (uc *BankTransferUseCase) WithMetrics(m *metrics.Metrics) *BankTransferUseCase {
	uc.metrics = m
	return uc
}

// WithClock overrides the time source.
func (uc *BankTransferUseCase) WithClock(now func() time.Time) *BankTransferUseCase {
	uc.now = now
	return uc
}

// WithWorkers bounds concurrent producer lookups in RetrieveBalances.
func (uc *BankTransferUseCase) WithWorkers(n int) *BankTransferUseCase {
	if n > 0 {
		uc.workers = n
	}
	return uc
}

// RetrieveBalancesResult is an unpersisted draft batch with its summary.
type RetrieveBalancesResult struct {
	Draft   *domain.BankTransferBatch
	Summary domain.BalanceSummary
}

// RetrieveBalances computes the net payable and rounded transfer amount of
// every active producer matching the criteria. Nothing is written. Details are
// ordered by producer ID.
func (uc *BankTransferUseCase) RetrieveBalances(ctx context.Context, criteria domain.RetrieveCriteria) (*RetrieveBalancesResult, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	producers, err := uc.producers.ListActive(ctx, criteria.Filter)
	if err != nil {
		return nil, fmt.Errorf("list producers: %w", err)
	}
	sort.Slice(producers, func(i, j int) bool { return producers[i].ID < producers[j].ID })

	details := make([]domain.TransferDetail, len(producers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, p := range producers {
		g.Go(func() error {
			net, err := uc.netPayable(gctx, criteria, p.ID)
			if err != nil {
				return fmt.Errorf("producer %s: %w", p.ID, err)
			}
			details[i] = domain.NewTransferDetail(p, net, criteria.RoundDownUnit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if criteria.DueByList {
		due := details[:0]
		for _, d := range details {
			if d.NetPayable.IsPositive() {
				due = append(due, d)
			}
		}
		details = due
	}

	if uc.metrics != nil {
		uc.metrics.BalanceRetrievalDuration.Observe(time.Since(start).Seconds())
	}

	return &RetrieveBalancesResult{
		Draft:   domain.NewDraftBatch(criteria, details),
		Summary: domain.Summarize(details),
	}, nil
}

func (uc *BankTransferUseCase) netPayable(ctx context.Context, criteria domain.RetrieveCriteria, producerID string) (decimal.Decimal, error) {
	switch criteria.Basis {
	case domain.BasisLastProcessedPeriod:
		last, err := uc.payments.LastApproved(ctx, producerID, criteria.AsOnDate)
		if err != nil {
			return decimal.Zero, err
		}
		if last == nil {
			return decimal.Zero, nil
		}
		return last.Outstanding(), nil
	default:
		totals, err := uc.payments.SumPayments(ctx, domain.PaymentQuery{
			ProducerID: producerID,
			To:         criteria.AsOnDate,
			Statuses:   []domain.PaymentStatus{domain.PaymentPending, domain.PaymentApproved},
		})
		if err != nil {
			return decimal.Zero, err
		}
		return totals.NetPayable(), nil
	}
}

// ApplyTransferInput is a retrieved list with the caller's approvals.
type ApplyTransferInput struct {
	AsOnDate      time.Time
	ApplyDate     time.Time
	Basis         domain.TransferBasis
	Filter        domain.TransferFilter
	Remarks       string
	CreatedBy     string
	Details       []domain.TransferDetail
	RoundDownUnit int64
}

func (in ApplyTransferInput) draft() *domain.BankTransferBatch {
	details := make([]domain.TransferDetail, len(in.Details))
	copy(details, in.Details)

	b := domain.NewDraftBatch(domain.RetrieveCriteria{
		Basis:         in.Basis,
		AsOnDate:      in.AsOnDate,
		Filter:        in.Filter,
		RoundDownUnit: in.RoundDownUnit,
	}, details)
	b.ApplyDate = in.ApplyDate
	b.Remarks = in.Remarks
	return b
}

// ApplyTransfer persists the approved lines as an Applied batch and posts one
// journal voucher debiting Producer Payable and crediting Bank Transfer
// Payable for the batch total. Everything commits or rolls back together.
func (uc *BankTransferUseCase) ApplyTransfer(ctx context.Context, input ApplyTransferInput) (*domain.BankTransferBatch, error) {
	if !input.Basis.IsValid() {
		return nil, domain.ErrInvalidTransferBasis
	}
	if input.RoundDownUnit <= 0 {
		return nil, domain.ErrInvalidRoundDownUnit
	}
	if !hasPayable(input.Details) {
		return nil, domain.ErrNoApprovedTransfers
	}

	actor := actorFrom(ctx, input.CreatedBy)

	var batch *domain.BankTransferBatch
	err := inTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		b, err := uc.applyTx(ctx, tx, input.draft(), actor)
		if err != nil {
			return err
		}
		batch = b
		return nil
	})
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BankTransfers.WithLabelValues(string(domain.BatchApplied)).Inc()
		uc.metrics.BankTransferAmount.Observe(batch.TotalTransferAmount.InexactFloat64())
	}

	return batch, nil
}

func (uc *BankTransferUseCase) applyTx(ctx context.Context, tx Transaction, b *domain.BankTransferBatch, actor string) (*domain.BankTransferBatch, error) {
	now := uc.now()

	if b.ApplyDate.IsZero() {
		b.ApplyDate = b.AsOnDate
	}
	if b.ApplyDate.IsZero() {
		b.ApplyDate = now
	}

	// 1. Allocate the transfer number
	number, err := uc.numbering.NextTransferNumber(ctx, tx, uc.companyCode, domain.PeriodOf(b.ApplyDate))
	if err != nil {
		return nil, err
	}

	// 2. Persist the batch as Applied
	if err := b.Apply(uc.idGen.Generate(), number, actor, now); err != nil {
		return nil, err
	}
	if err := uc.batchRepo.Create(ctx, tx, b); err != nil {
		return nil, err
	}

	// 3. System ledgers
	bankPayable, err := uc.ledgers.EnsureLedgerTx(ctx, tx, domain.LedgerBankTransferPayable, domain.ClassLiabilityLike)
	if err != nil {
		return nil, err
	}
	producerPayable, err := uc.ledgers.EnsureLedgerTx(ctx, tx, domain.LedgerProducerPayable, domain.ClassLiabilityLike)
	if err != nil {
		return nil, err
	}

	// 4. One journal voucher for the batch total
	voucher, err := uc.vouchers.CreateVoucherTx(ctx, tx, CreateVoucherInput{
		Type: domain.VoucherJournal,
		Date: b.ApplyDate,
		Entries: []domain.Entry{
			domain.DebitEntry(producerPayable.ID, b.TotalTransferAmount),
			domain.CreditEntry(bankPayable.ID, b.TotalTransferAmount),
		},
		Narration: "Bank transfer " + b.TransferNumber,
		Reference: domain.Reference{Type: domain.ReferenceBankTransfer, ID: b.ID},
		CreatedBy: actor,
	})
	if err != nil {
		return nil, err
	}

	// 5. Link the voucher
	b.AttachVoucher(voucher.ID)
	if err := uc.batchRepo.Update(ctx, tx, b); err != nil {
		return nil, err
	}

	if err := uc.emit(ctx, tx, b, domain.EventTypeBankTransferApplied, now); err != nil {
		return nil, err
	}
	if err := uc.audit(ctx, tx, domain.AuditActionBankTransferApply, actor, nil, b, now); err != nil {
		return nil, err
	}

	return b, nil
}

// CancelTransferInput represents input for cancelling a batch.
type CancelTransferInput struct {
	BatchID     string
	Reason      string
	CancelledBy string
}

// CancelTransfer reverses the batch voucher and cancels every line. Only
// Applied batches can be cancelled; the status check runs under the batch row lock.
func (uc *BankTransferUseCase) CancelTransfer(ctx context.Context, input CancelTransferInput) (*domain.BankTransferBatch, error) {
	actor := actorFrom(ctx, input.CancelledBy)

	var batch *domain.BankTransferBatch
	err := inTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		b, err := uc.batchRepo.GetByIDForUpdate(ctx, tx, input.BatchID)
		if err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(domain.BatchCancelled) {
			return fmt.Errorf("%w: cannot cancel %s batch", domain.ErrInvalidBatchTransition, b.Status)
		}
		if b.VoucherID == nil {
			return domain.ErrBatchVoucherMissing
		}
		before := domain.MarshalState(b)
		now := uc.now()

		narration := "Cancellation of bank transfer " + b.TransferNumber
		if input.Reason != "" {
			narration += ": " + input.Reason
		}
		reversal, err := uc.vouchers.ReverseVoucherTx(ctx, tx, ReverseVoucherInput{
			VoucherID: *b.VoucherID,
			Date:      now,
			Narration: narration,
			CreatedBy: actor,
		})
		if err != nil {
			return err
		}

		if err := b.Cancel(reversal.ID, actor, now); err != nil {
			return err
		}
		if input.Reason != "" {
			b.Remarks = input.Reason
		}
		if err := uc.batchRepo.Update(ctx, tx, b); err != nil {
			return err
		}

		if err := uc.emit(ctx, tx, b, domain.EventTypeBankTransferCancelled, now); err != nil {
			return err
		}
		if err := uc.audit(ctx, tx, domain.AuditActionBankTransferCancel, actor, before, b, now); err != nil {
			return err
		}

		batch = b
		return nil
	})
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BankTransfers.WithLabelValues(string(domain.BatchCancelled)).Inc()
	}

	return batch, nil
}

// CompleteTransfer marks an Applied batch as Completed and its approved lines
// as Transferred. No ledger is touched.
func (uc *BankTransferUseCase) CompleteTransfer(ctx context.Context, batchID string) (*domain.BankTransferBatch, error) {
	actor := actorFrom(ctx, "")

	var batch *domain.BankTransferBatch
	err := inTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		b, err := uc.batchRepo.GetByIDForUpdate(ctx, tx, batchID)
		if err != nil {
			return err
		}
		before := domain.MarshalState(b)
		now := uc.now()

		if err := b.Complete(now); err != nil {
			return err
		}
		if err := uc.batchRepo.Update(ctx, tx, b); err != nil {
			return err
		}

		if err := uc.emit(ctx, tx, b, domain.EventTypeBankTransferCompleted, now); err != nil {
			return err
		}
		if err := uc.audit(ctx, tx, domain.AuditActionBankTransferComplete, actor, before, b, now); err != nil {
			return err
		}

		batch = b
		return nil
	})
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BankTransfers.WithLabelValues(string(domain.BatchCompleted)).Inc()
	}

	return batch, nil
}

// GetTransfer retrieves a batch by ID.
func (uc *BankTransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.BankTransferBatch, error) {
	return uc.batchRepo.GetByID(ctx, id)
}

// ListTransferEvents returns the lifecycle events recorded for a batch, oldest
// first. Unknown batches fail with ErrBatchNotFound.
func (uc *BankTransferUseCase) ListTransferEvents(ctx context.Context, batchID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}
	if _, err := uc.batchRepo.GetByID(ctx, batchID); err != nil {
		return nil, err
	}
	return uc.outboxRepo.GetByAggregate(ctx, domain.AggregateTypeBankTransfer, batchID, limit, offset)
}

// ListTransfers lists batches, newest first.
func (uc *BankTransferUseCase) ListTransfers(ctx context.Context, filter domain.BatchFilter) ([]*domain.BankTransferBatch, error) {
	limit, offset, err := domain.ValidatePagination(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
	}
	filter.Limit, filter.Offset = limit, offset

	return uc.batchRepo.List(ctx, filter)
}

func (uc *BankTransferUseCase) emit(ctx context.Context, tx Transaction, b *domain.BankTransferBatch, eventType string, now time.Time) error {
	payload := domain.BankTransferEvent{
		BatchID:             b.ID,
		TransferNumber:      b.TransferNumber,
		Status:              string(b.Status),
		TotalTransferAmount: b.TotalTransferAmount.String(),
		TotalApproved:       b.TotalApproved,
	}
	if b.VoucherID != nil {
		payload.VoucherID = *b.VoucherID
	}
	if b.ReversalVoucherID != nil {
		payload.ReversalVoucherID = *b.ReversalVoucherID
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   b.ID,
		AggregateType: domain.AggregateTypeBankTransfer,
		EventType:     eventType,
		Payload:       domain.MarshalState(payload),
		CreatedAt:     now,
	})
}

func (uc *BankTransferUseCase) audit(ctx context.Context, tx Transaction, action domain.AuditAction, actor string, before domain.JSON, b *domain.BankTransferBatch, now time.Time) error {
	if uc.auditRepo == nil {
		return nil
	}

	err := uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actor,
		Action:       string(action),
		ResourceType: domain.AggregateTypeBankTransfer,
		ResourceID:   b.ID,
		BeforeState:  before,
		AfterState:   domain.MarshalState(b),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
	if err == nil && uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(domain.AuditStatusSuccess)).Inc()
	}
	return err
}

func (uc *BankTransferUseCase) recordError(err error) {
	if uc.metrics != nil {
		uc.metrics.BankTransferErrors.WithLabelValues(domain.ErrorClass(err)).Inc()
	}
}

func hasPayable(details []domain.TransferDetail) bool {
	for _, d := range details {
		if d.IsPayable() {
			return true
		}
	}
	return false
}
