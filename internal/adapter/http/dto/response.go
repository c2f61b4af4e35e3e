package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// LedgerResponse represents a ledger in API responses.
type LedgerResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Classification string          `json:"classification"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpeningSide    string          `json:"opening_side"`
	Balance        decimal.Decimal `json:"balance"`
	Side           string          `json:"side"`
	Status         string          `json:"status"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LedgerFromDomain converts a domain ledger to response. Balance is the
// unsigned magnitude shown on Side.
func LedgerFromDomain(l *domain.Ledger) *LedgerResponse {
	return &LedgerResponse{
		ID:             l.ID,
		Name:           l.Name,
		Classification: string(l.Classification),
		OpeningBalance: l.OpeningBalance,
		OpeningSide:    string(l.OpeningSide),
		Balance:        l.Magnitude(),
		Side:           string(l.CurrentSide),
		Status:         string(l.Status),
		Version:        l.Version,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// LedgersFromDomain converts domain ledgers to responses.
func LedgersFromDomain(ledgers []*domain.Ledger) []*LedgerResponse {
	result := make([]*LedgerResponse, len(ledgers))
	for i, l := range ledgers {
		result[i] = LedgerFromDomain(l)
	}
	return result
}

// PostingResponse represents one balance change of a ledger.
type PostingResponse struct {
	ID            string          `json:"id"`
	VoucherID     string          `json:"voucher_id"`
	LedgerID      string          `json:"ledger_id"`
	LineNo        int             `json:"line_no"`
	NetChange     decimal.Decimal `json:"net_change"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	SideAfter     string          `json:"side_after"`
	LedgerVersion int64           `json:"ledger_version"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PostingsFromDomain converts domain postings to responses.
func PostingsFromDomain(postings []*domain.LedgerPosting) []*PostingResponse {
	result := make([]*PostingResponse, len(postings))
	for i, p := range postings {
		result[i] = &PostingResponse{
			ID:            p.ID,
			VoucherID:     p.VoucherID,
			LedgerID:      p.LedgerID,
			LineNo:        p.LineNo,
			NetChange:     p.NetChange,
			BalanceBefore: p.BalanceBefore,
			BalanceAfter:  p.BalanceAfter,
			SideAfter:     string(p.SideAfter),
			LedgerVersion: p.LedgerVersion,
			CreatedAt:     p.CreatedAt,
		}
	}
	return result
}

// ReconciliationResponse is the result of replaying a ledger.
type ReconciliationResponse struct {
	LedgerID        string          `json:"ledger_id"`
	RecordedBalance decimal.Decimal `json:"recorded_balance"`
	RecordedSide    string          `json:"recorded_side"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
	ReplayedSide    string          `json:"replayed_side"`
	Difference      decimal.Decimal `json:"difference"`
	PostingCount    int             `json:"posting_count"`
	IsReconciled    bool            `json:"is_reconciled"`
	LastChecked     time.Time       `json:"last_checked"`
}

// ReconciliationFromResult converts a use case result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		LedgerID:        r.LedgerID,
		RecordedBalance: r.RecordedBalance,
		RecordedSide:    string(r.RecordedSide),
		ReplayedBalance: r.ReplayedBalance,
		ReplayedSide:    string(r.ReplayedSide),
		Difference:      r.Difference,
		PostingCount:    r.PostingCount,
		IsReconciled:    r.IsReconciled,
		LastChecked:     r.LastChecked,
	}
}

// ConsistencyResponse is the ledger-wide consistency report.
type ConsistencyResponse struct {
	TotalDebit         decimal.Decimal `json:"total_debit"`
	TotalCredit        decimal.Decimal `json:"total_credit"`
	Difference         decimal.Decimal `json:"difference"`
	PostingNetChange   decimal.Decimal `json:"posting_net_change"`
	VoucherCount       int64           `json:"voucher_count"`
	UnbalancedVouchers int64           `json:"unbalanced_vouchers"`
	Consistent         bool            `json:"consistent"`
}

// ConsistencyFromReport converts a use case report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		TotalDebit:         r.TotalDebit,
		TotalCredit:        r.TotalCredit,
		Difference:         r.Difference,
		PostingNetChange:   r.PostingNetChange,
		VoucherCount:       r.VoucherCount,
		UnbalancedVouchers: r.UnbalancedVouchers,
		Consistent:         r.Consistent,
	}
}

// EntryResponse is a voucher line in two-column form.
type EntryResponse struct {
	LedgerID   string          `json:"ledger_id"`
	LedgerName string          `json:"ledger_name,omitempty"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
}

// VoucherResponse represents a voucher in API responses.
type VoucherResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Number        string          `json:"number"`
	Date          string          `json:"date"`
	Narration     string          `json:"narration,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReversalOf    *string         `json:"reversal_of,omitempty"`
	TotalDebit    decimal.Decimal `json:"total_debit"`
	TotalCredit   decimal.Decimal `json:"total_credit"`
	Entries       []EntryResponse `json:"entries"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// VoucherFromDomain converts a domain voucher to response.
func VoucherFromDomain(v *domain.Voucher) *VoucherResponse {
	entries := make([]EntryResponse, len(v.Entries))
	for i, e := range v.Entries {
		entries[i] = EntryResponse{
			LedgerID:   e.LedgerID,
			LedgerName: e.LedgerName,
			Debit:      e.Debit(),
			Credit:     e.Credit(),
		}
	}

	return &VoucherResponse{
		ID:            v.ID,
		Type:          string(v.Type),
		Number:        v.Number,
		Date:          v.Date.Format(DateLayout),
		Narration:     v.Narration,
		ReferenceType: v.Reference.Type,
		ReferenceID:   v.Reference.ID,
		ReversalOf:    v.ReversalOf,
		TotalDebit:    v.TotalDebit,
		TotalCredit:   v.TotalCredit,
		Entries:       entries,
		CreatedBy:     v.CreatedBy,
		CreatedAt:     v.CreatedAt,
	}
}

// VouchersFromDomain converts domain vouchers to responses.
func VouchersFromDomain(vouchers []*domain.Voucher) []*VoucherResponse {
	result := make([]*VoucherResponse, len(vouchers))
	for i, v := range vouchers {
		result[i] = VoucherFromDomain(v)
	}
	return result
}

// TransferDetailResponse is one producer line of a batch.
type TransferDetailResponse struct {
	ProducerID     string             `json:"producer_id"`
	ProducerName   string             `json:"producer_name"`
	Bank           BankDetailsPayload `json:"bank"`
	NetPayable     decimal.Decimal    `json:"net_payable"`
	TransferAmount decimal.Decimal    `json:"transfer_amount"`
	Approved       bool               `json:"approved"`
	TransferStatus string             `json:"transfer_status,omitempty"`
	TransferredAt  *time.Time         `json:"transferred_at,omitempty"`
}

func detailsFromDomain(details []domain.TransferDetail) []TransferDetailResponse {
	result := make([]TransferDetailResponse, len(details))
	for i, d := range details {
		result[i] = TransferDetailResponse{
			ProducerID:     d.ProducerID,
			ProducerName:   d.ProducerName,
			Bank:           BankDetailsPayload(d.Bank),
			NetPayable:     d.NetPayable,
			TransferAmount: d.TransferAmount,
			Approved:       d.Approved,
			TransferStatus: string(d.TransferStatus),
			TransferredAt:  d.TransferredAt,
		}
	}
	return result
}

// BatchResponse represents a bank transfer batch in API responses.
type BatchResponse struct {
	ID                  string                   `json:"id"`
	TransferNumber      string                   `json:"transfer_number"`
	Basis               string                   `json:"basis"`
	Status              string                   `json:"status"`
	AsOnDate            string                   `json:"as_on_date"`
	ApplyDate           string                   `json:"apply_date"`
	CollectionCenterID  string                   `json:"collection_center_id,omitempty"`
	BankID              string                   `json:"bank_id,omitempty"`
	RoundDownUnit       int64                    `json:"round_down_unit"`
	TotalNetPayable     decimal.Decimal          `json:"total_net_payable"`
	TotalTransferAmount decimal.Decimal          `json:"total_transfer_amount"`
	TotalApproved       int                      `json:"total_approved"`
	TotalProducers      int                      `json:"total_producers"`
	Remarks             string                   `json:"remarks,omitempty"`
	VoucherID           *string                  `json:"voucher_id,omitempty"`
	ReversalVoucherID   *string                  `json:"reversal_voucher_id,omitempty"`
	CreatedBy           string                   `json:"created_by"`
	CancelledBy         *string                  `json:"cancelled_by,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
	CompletedAt         *time.Time               `json:"completed_at,omitempty"`
	CancelledAt         *time.Time               `json:"cancelled_at,omitempty"`
	Details             []TransferDetailResponse `json:"details,omitempty"`
}

// BatchFromDomain converts a domain batch to response.
func BatchFromDomain(b *domain.BankTransferBatch) *BatchResponse {
	resp := &BatchResponse{
		ID:                  b.ID,
		TransferNumber:      b.TransferNumber,
		Basis:               string(b.Basis),
		Status:              string(b.Status),
		AsOnDate:            formatDate(b.AsOnDate),
		ApplyDate:           formatDate(b.ApplyDate),
		CollectionCenterID:  b.Filter.CollectionCenterID,
		BankID:              b.Filter.BankID,
		RoundDownUnit:       b.RoundDownUnit,
		TotalNetPayable:     b.TotalNetPayable,
		TotalTransferAmount: b.TotalTransferAmount,
		TotalApproved:       b.TotalApproved,
		TotalProducers:      b.TotalProducers,
		Remarks:             b.Remarks,
		VoucherID:           b.VoucherID,
		ReversalVoucherID:   b.ReversalVoucherID,
		CreatedBy:           b.CreatedBy,
		CancelledBy:         b.CancelledBy,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
		CompletedAt:         b.CompletedAt,
		CancelledAt:         b.CancelledAt,
	}
	if len(b.Details) > 0 {
		resp.Details = detailsFromDomain(b.Details)
	}
	return resp
}

// BatchesFromDomain converts domain batches to responses.
func BatchesFromDomain(batches []*domain.BankTransferBatch) []*BatchResponse {
	result := make([]*BatchResponse, len(batches))
	for i, b := range batches {
		result[i] = BatchFromDomain(b)
	}
	return result
}

// EventResponse is one recorded lifecycle event.
type EventResponse struct {
	ID          string         `json:"id"`
	EventType   string         `json:"event_type"`
	Payload     map[string]any `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
}

// EventsFromDomain converts outbox events to responses.
func EventsFromDomain(events []*domain.OutboxEvent) []*EventResponse {
	result := make([]*EventResponse, len(events))
	for i, e := range events {
		result[i] = &EventResponse{
			ID:          e.ID,
			EventType:   e.EventType,
			Payload:     e.Payload,
			CreatedAt:   e.CreatedAt,
			PublishedAt: e.PublishedAt,
		}
	}
	return result
}

// SummaryResponse totals a retrieved list.
type SummaryResponse struct {
	TotalNetPayable      decimal.Decimal `json:"total_net_payable"`
	TotalTransferAmount  decimal.Decimal `json:"total_transfer_amount"`
	Count                int             `json:"count"`
	ApprovedCount        int             `json:"approved_count"`
	NegativeBalanceCount int             `json:"negative_balance_count"`
}

// RetrieveBalancesResponse is an unpersisted draft list.
type RetrieveBalancesResponse struct {
	Basis         string                   `json:"basis"`
	AsOnDate      string                   `json:"as_on_date"`
	RoundDownUnit int64                    `json:"round_down_unit"`
	Details       []TransferDetailResponse `json:"details"`
	Summary       SummaryResponse          `json:"summary"`
}

// RetrieveBalancesFromResult converts a use case result to response.
func RetrieveBalancesFromResult(r *usecase.RetrieveBalancesResult) *RetrieveBalancesResponse {
	return &RetrieveBalancesResponse{
		Basis:         string(r.Draft.Basis),
		AsOnDate:      formatDate(r.Draft.AsOnDate),
		RoundDownUnit: r.Draft.RoundDownUnit,
		Details:       detailsFromDomain(r.Draft.Details),
		Summary: SummaryResponse{
			TotalNetPayable:      r.Summary.TotalNetPayable,
			TotalTransferAmount:  r.Summary.TotalTransferAmount,
			Count:                r.Summary.Count,
			ApprovedCount:        r.Summary.ApprovedCount,
			NegativeBalanceCount: r.Summary.NegativeBalanceCount,
		},
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
