package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransferBasis selects how a producer's net payable is computed.
type TransferBasis string

const (
	// BasisAsOnDate sums every pending or approved payment up to the as-on date.
	BasisAsOnDate TransferBasis = "as_on_date_balance"
	// BasisLastProcessedPeriod takes the outstanding amount of the last approved payment.
	BasisLastProcessedPeriod TransferBasis = "last_processed_period"
)

// IsValid reports whether b is a known basis.
func (b TransferBasis) IsValid() bool {
	return b == BasisAsOnDate || b == BasisLastProcessedPeriod
}

// BatchStatus is the lifecycle status of a bank transfer batch.
type BatchStatus string

const (
	BatchDraft     BatchStatus = "draft"
	BatchApplied   BatchStatus = "applied"
	BatchCompleted BatchStatus = "completed"
	BatchCancelled BatchStatus = "cancelled"
)

// IsValid reports whether s is a known batch status.
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchDraft, BatchApplied, BatchCompleted, BatchCancelled:
		return true
	}
	return false
}

var batchTransitions = map[BatchStatus][]BatchStatus{
	BatchDraft:   {BatchApplied},
	BatchApplied: {BatchCompleted, BatchCancelled},
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s BatchStatus) CanTransitionTo(next BatchStatus) bool {
	for _, allowed := range batchTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransferStatus is the payout status of a single producer line.
type TransferStatus string

const (
	TransferPending     TransferStatus = "pending"
	TransferTransferred TransferStatus = "transferred"
	TransferFailed      TransferStatus = "failed"
	TransferCancelled   TransferStatus = "cancelled"
)

// TransferFilter restricts the producers considered for a batch.
type TransferFilter struct {
	CollectionCenterID string `json:"collection_center_id,omitempty"`
	BankID             string `json:"bank_id,omitempty"`
}

// RetrieveCriteria drives balance retrieval.
type RetrieveCriteria struct {
	AsOnDate      time.Time
	Basis         TransferBasis
	Filter        TransferFilter
	RoundDownUnit int64
	DueByList     bool
}

// Validate checks basis, unit and date.
func (c RetrieveCriteria) Validate() error {
	if !c.Basis.IsValid() {
		return ErrInvalidTransferBasis
	}
	if c.RoundDownUnit <= 0 {
		return ErrInvalidRoundDownUnit
	}
	if c.AsOnDate.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// RoundDown floors a positive net payable to a multiple of unit. Zero or
// negative amounts transfer nothing.
func RoundDown(netPayable decimal.Decimal, unit int64) decimal.Decimal {
	if !netPayable.IsPositive() || unit <= 0 {
		return decimal.Zero
	}
	u := decimal.NewFromInt(unit)
	return netPayable.Div(u).Floor().Mul(u)
}

// TransferDetail is one producer line of a batch.
type TransferDetail struct {
	TransferredAt  *time.Time
	ProducerID     string
	ProducerName   string
	TransferStatus TransferStatus
	Bank           BankDetails
	NetPayable     decimal.Decimal
	TransferAmount decimal.Decimal
	Approved       bool
}

// NewTransferDetail computes the rounded transfer amount for a producer.
func NewTransferDetail(p Producer, netPayable decimal.Decimal, unit int64) TransferDetail {
	amount := RoundDown(netPayable, unit)
	return TransferDetail{
		ProducerID:     p.ID,
		ProducerName:   p.Name,
		Bank:           p.Bank,
		NetPayable:     netPayable,
		TransferAmount: amount,
		Approved:       amount.IsPositive(),
		TransferStatus: TransferPending,
	}
}

// IsPayable reports whether the line takes part in an applied batch.
func (d TransferDetail) IsPayable() bool {
	return d.Approved && d.TransferAmount.IsPositive()
}

// BalanceSummary aggregates a list of retrieved details.
type BalanceSummary struct {
	TotalNetPayable      decimal.Decimal
	TotalTransferAmount  decimal.Decimal
	Count                int
	ApprovedCount        int
	NegativeBalanceCount int
}

// Summarize computes the summary over details.
func Summarize(details []TransferDetail) BalanceSummary {
	s := BalanceSummary{
		Count:               len(details),
		TotalNetPayable:     decimal.Zero,
		TotalTransferAmount: decimal.Zero,
	}
	for _, d := range details {
		s.TotalNetPayable = s.TotalNetPayable.Add(d.NetPayable)
		s.TotalTransferAmount = s.TotalTransferAmount.Add(d.TransferAmount)
		if d.Approved {
			s.ApprovedCount++
		}
		if d.NetPayable.IsNegative() {
			s.NegativeBalanceCount++
		}
	}
	return s
}

// BankTransferBatch is a set of producer payouts posted as one journal voucher.
type BankTransferBatch struct {
	AsOnDate            time.Time
	ApplyDate           time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CompletedAt         *time.Time
	CancelledAt         *time.Time
	VoucherID           *string
	ReversalVoucherID   *string
	CancelledBy         *string
	ID                  string
	TransferNumber      string
	Basis               TransferBasis
	Status              BatchStatus
	Remarks             string
	CreatedBy           string
	Filter              TransferFilter
	Details             []TransferDetail
	TotalNetPayable     decimal.Decimal
	TotalTransferAmount decimal.Decimal
	RoundDownUnit       int64
	TotalApproved       int
	TotalProducers      int
}

// NewDraftBatch wraps retrieved details into an unpersisted draft.
func NewDraftBatch(c RetrieveCriteria, details []TransferDetail) *BankTransferBatch {
	b := &BankTransferBatch{
		Basis:         c.Basis,
		AsOnDate:      c.AsOnDate,
		Filter:        c.Filter,
		RoundDownUnit: c.RoundDownUnit,
		Status:        BatchDraft,
		Details:       details,
	}
	b.TotalProducers = len(details)
	b.recomputeTotals()
	return b
}

// Apply moves a draft to Applied. Only payable lines are kept, each set to
// Pending; TotalProducers keeps the number of submitted lines. A payable
// line's amount must be its net payable rounded down to the batch unit.
func (b *BankTransferBatch) Apply(id, number, createdBy string, at time.Time) error {
	if !b.Status.CanTransitionTo(BatchApplied) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidBatchTransition, b.Status, BatchApplied)
	}
	if b.RoundDownUnit <= 0 {
		return ErrInvalidRoundDownUnit
	}

	seen := make(map[string]struct{}, len(b.Details))
	kept := make([]TransferDetail, 0, len(b.Details))
	for _, d := range b.Details {
		if _, dup := seen[d.ProducerID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateProducer, d.ProducerID)
		}
		seen[d.ProducerID] = struct{}{}
		if !d.IsPayable() {
			continue
		}
		if want := RoundDown(d.NetPayable, b.RoundDownUnit); !d.TransferAmount.Equal(want) {
			return fmt.Errorf("%w: producer %s sent %s, expected %s", ErrTransferAmountMismatch, d.ProducerID, d.TransferAmount, want)
		}
		d.TransferStatus = TransferPending
		d.TransferredAt = nil
		kept = append(kept, d)
	}
	if len(kept) == 0 {
		return ErrNoApprovedTransfers
	}

	b.TotalProducers = len(b.Details)
	b.Details = kept
	b.recomputeTotals()

	b.ID = id
	b.TransferNumber = number
	b.CreatedBy = createdBy
	b.Status = BatchApplied
	if b.ApplyDate.IsZero() {
		b.ApplyDate = at
	}
	b.CreatedAt = at
	b.UpdatedAt = at
	return nil
}

// AttachVoucher records the voucher posted for the batch.
func (b *BankTransferBatch) AttachVoucher(voucherID string) {
	b.VoucherID = &voucherID
}

// Cancel moves an applied batch to Cancelled and cancels every line.
func (b *BankTransferBatch) Cancel(reversalVoucherID, by string, at time.Time) error {
	if !b.Status.CanTransitionTo(BatchCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidBatchTransition, b.Status, BatchCancelled)
	}
	for i := range b.Details {
		b.Details[i].TransferStatus = TransferCancelled
	}
	b.Status = BatchCancelled
	b.ReversalVoucherID = &reversalVoucherID
	b.CancelledBy = &by
	b.CancelledAt = &at
	b.UpdatedAt = at
	return nil
}

// Complete moves an applied batch to Completed. Approved lines become Transferred.
func (b *BankTransferBatch) Complete(at time.Time) error {
	if !b.Status.CanTransitionTo(BatchCompleted) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidBatchTransition, b.Status, BatchCompleted)
	}
	for i := range b.Details {
		if !b.Details[i].Approved {
			continue
		}
		b.Details[i].TransferStatus = TransferTransferred
		b.Details[i].TransferredAt = &at
	}
	b.Status = BatchCompleted
	b.CompletedAt = &at
	b.UpdatedAt = at
	return nil
}

func (b *BankTransferBatch) recomputeTotals() {
	b.TotalNetPayable = decimal.Zero
	b.TotalTransferAmount = decimal.Zero
	b.TotalApproved = 0
	for _, d := range b.Details {
		b.TotalNetPayable = b.TotalNetPayable.Add(d.NetPayable)
		b.TotalTransferAmount = b.TotalTransferAmount.Add(d.TransferAmount)
		if d.Approved {
			b.TotalApproved++
		}
	}
}

// BatchFilter narrows batch listings.
type BatchFilter struct {
	Status BatchStatus
	Limit  int
	Offset int
}
