package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/metrics"
)

// VoucherUseCase validates, numbers and posts vouchers.
type VoucherUseCase struct {
	txManager   TransactionManager
	voucherRepo VoucherRepository
	posting     *PostingEngine
	numbering   *NumberingService
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewVoucherUseCase creates a new VoucherUseCase.
func NewVoucherUseCase(
	txManager TransactionManager,
	voucherRepo VoucherRepository,
	posting *PostingEngine,
	numbering *NumberingService,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *VoucherUseCase {
	return &VoucherUseCase{
		txManager:   txManager,
		voucherRepo: voucherRepo,
		posting:     posting,
		numbering:   numbering,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		now:         utcNow,
	}
}

// WithRetrier re-runs whole voucher transactions on concurrency conflicts.
func (uc *VoucherUseCase) WithRetrier(r Retrier) *VoucherUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics records voucher metrics.
func (uc *VoucherUseCase) WithMetrics(m *metrics.Metrics) *VoucherUseCase {
	uc.metrics = m
	return uc
}

// WithClock overrides the time source.
func (uc *VoucherUseCase) WithClock(now func() time.Time) *VoucherUseCase {
	uc.now = now
	return uc
}

// CreateVoucherInput represents input for creating a voucher.
type CreateVoucherInput struct {
	Date      time.Time
	Reference domain.Reference
	Type      domain.VoucherType
	Narration string
	CreatedBy string
	Entries   []domain.Entry
}

func (in CreateVoucherInput) validate() error {
	if !in.Type.IsValid() {
		return domain.ErrInvalidVoucherType
	}
	if in.Date.IsZero() {
		return domain.ErrMissingDate
	}
	if err := in.Reference.Validate(); err != nil {
		return err
	}
	if err := domain.ValidateNarration(in.Narration); err != nil {
		return err
	}
	_, _, err := domain.ValidateEntries(in.Entries)
	return err
}

// CreateVoucher validates the entries and then numbers, posts and stores the
// voucher in one transaction. Unbalanced input fails before anything is written.
func (uc *VoucherUseCase) CreateVoucher(ctx context.Context, input CreateVoucherInput) (*domain.Voucher, error) {
	if err := input.validate(); err != nil {
		uc.recordError(err)
		return nil, err
	}

	start := time.Now()

	var voucher *domain.Voucher
	err := inTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		v, err := uc.CreateVoucherTx(ctx, tx, input)
		if err != nil {
			return err
		}
		voucher = v
		return nil
	})
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.VouchersPosted.WithLabelValues(string(voucher.Type)).Inc()
		uc.metrics.VoucherAmount.Observe(voucher.TotalDebit.InexactFloat64())
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}

	return voucher, nil
}

// CreateVoucherTx is CreateVoucher inside a caller-owned transaction.
func (uc *VoucherUseCase) CreateVoucherTx(ctx context.Context, tx Transaction, input CreateVoucherInput) (*domain.Voucher, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	totalDebit, totalCredit, _ := domain.ValidateEntries(input.Entries)
	now := uc.now()

	voucher := &domain.Voucher{
		ID:          uc.idGen.Generate(),
		Type:        input.Type,
		Date:        input.Date,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Narration:   input.Narration,
		Reference:   input.Reference,
		CreatedBy:   actorFrom(ctx, input.CreatedBy),
		CreatedAt:   now,
	}

	if err := uc.persist(ctx, tx, voucher, input.Entries, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   voucher.ID,
		AggregateType: domain.AggregateTypeVoucher,
		EventType:     domain.EventTypeVoucherPosted,
		Payload: domain.MarshalState(domain.VoucherPostedEvent{
			VoucherID:     voucher.ID,
			Number:        voucher.Number,
			Type:          string(voucher.Type),
			Date:          voucher.Date.Format(time.DateOnly),
			TotalDebit:    voucher.TotalDebit.String(),
			TotalCredit:   voucher.TotalCredit.String(),
			ReferenceType: voucher.Reference.Type,
			ReferenceID:   voucher.Reference.ID,
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	return voucher, nil
}

// persist allocates the number, posts the entries and stores the voucher.
func (uc *VoucherUseCase) persist(ctx context.Context, tx Transaction, voucher *domain.Voucher, entries []domain.Entry, now time.Time) error {
	number, err := uc.numbering.NextNumber(ctx, tx, voucher.Type, domain.PeriodOf(voucher.Date))
	if err != nil {
		return err
	}
	voucher.Number = number

	posted, err := uc.posting.PostEntries(ctx, tx, voucher.ID, entries, now)
	if err != nil {
		return err
	}
	voucher.Entries = posted

	return uc.voucherRepo.Create(ctx, tx, voucher)
}

// ReverseVoucherInput represents input for reversing a voucher.
type ReverseVoucherInput struct {
	Date      time.Time
	VoucherID string
	Narration string
	CreatedBy string
}

// ReverseVoucher posts the compensating voucher of an existing one.
func (uc *VoucherUseCase) ReverseVoucher(ctx context.Context, input ReverseVoucherInput) (*domain.Voucher, error) {
	var reversal *domain.Voucher
	err := inTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		v, err := uc.ReverseVoucherTx(ctx, tx, input)
		if err != nil {
			return err
		}
		reversal = v
		return nil
	})
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.VouchersReversed.Inc()
	}

	return reversal, nil
}

// ReverseVoucherTx is ReverseVoucher inside a caller-owned transaction.
// A voucher can be reversed once; reversals themselves cannot be reversed.
func (uc *VoucherUseCase) ReverseVoucherTx(ctx context.Context, tx Transaction, input ReverseVoucherInput) (*domain.Voucher, error) {
	if err := domain.ValidateNarration(input.Narration); err != nil {
		return nil, err
	}

	original, err := uc.voucherRepo.GetByIDForUpdate(ctx, tx, input.VoucherID)
	if err != nil {
		return nil, err
	}

	reversed, err := uc.voucherRepo.HasReversal(ctx, tx, original.ID)
	if err != nil {
		return nil, err
	}
	if reversed {
		return nil, fmt.Errorf("%w: %s", domain.ErrVoucherAlreadyReversed, original.Number)
	}

	now := uc.now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	actor := actorFrom(ctx, input.CreatedBy)
	reversal, err := original.Reversal(date, input.Narration, actor)
	if err != nil {
		return nil, err
	}
	reversal.ID = uc.idGen.Generate()
	reversal.CreatedAt = now

	if err := uc.persist(ctx, tx, reversal, reversal.Entries, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   original.ID,
		AggregateType: domain.AggregateTypeVoucher,
		EventType:     domain.EventTypeVoucherReversed,
		Payload: domain.MarshalState(domain.VoucherReversedEvent{
			ReversalVoucherID: reversal.ID,
			ReversalNumber:    reversal.Number,
			OriginalVoucherID: original.ID,
			Amount:            reversal.TotalDebit.String(),
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       actor,
			Action:       string(domain.AuditActionVoucherReverse),
			ResourceType: domain.AggregateTypeVoucher,
			ResourceID:   original.ID,
			BeforeState:  domain.MarshalState(original),
			AfterState:   domain.MarshalState(reversal),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(ctx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	return reversal, nil
}

// GetVoucher retrieves a voucher by ID.
func (uc *VoucherUseCase) GetVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	return uc.voucherRepo.GetByID(ctx, id)
}

// ListVouchers lists vouchers matching filter.
func (uc *VoucherUseCase) ListVouchers(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	limit, offset, err := domain.ValidatePagination(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, domain.ErrInvalidVoucherType
	}
	filter.Limit, filter.Offset = limit, offset

	return uc.voucherRepo.List(ctx, filter)
}

func (uc *VoucherUseCase) recordError(err error) {
	if uc.metrics != nil {
		uc.metrics.VoucherErrors.WithLabelValues(domain.ErrorClass(err)).Inc()
	}
}
