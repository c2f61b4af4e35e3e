package domain

import "time"

// Event types
const (
	EventTypeLedgerCreated         = "ledger.created"
	EventTypeVoucherPosted         = "voucher.posted"
	EventTypeVoucherReversed       = "voucher.reversed"
	EventTypeBankTransferApplied   = "bank_transfer.applied"
	EventTypeBankTransferCancelled = "bank_transfer.cancelled"
	EventTypeBankTransferCompleted = "bank_transfer.completed"
)

// Aggregate types
const (
	AggregateTypeLedger       = "ledger"
	AggregateTypeVoucher      = "voucher"
	AggregateTypeBankTransfer = "bank_transfer"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// LedgerCreatedEvent payload
type LedgerCreatedEvent struct {
	LedgerID       string `json:"ledger_id"`
	Name           string `json:"name"`
	Classification string `json:"classification"`
	OpeningBalance string `json:"opening_balance"`
	OpeningSide    string `json:"opening_side"`
}

// VoucherPostedEvent payload
type VoucherPostedEvent struct {
	VoucherID     string `json:"voucher_id"`
	Number        string `json:"number"`
	Type          string `json:"type"`
	Date          string `json:"date"`
	TotalDebit    string `json:"total_debit"`
	TotalCredit   string `json:"total_credit"`
	ReferenceType string `json:"reference_type,omitempty"`
	ReferenceID   string `json:"reference_id,omitempty"`
}

// VoucherReversedEvent payload
type VoucherReversedEvent struct {
	ReversalVoucherID string `json:"reversal_voucher_id"`
	ReversalNumber    string `json:"reversal_number"`
	OriginalVoucherID string `json:"original_voucher_id"`
	Amount            string `json:"amount"`
}

// BankTransferEvent payload, shared by the applied, cancelled and completed events.
type BankTransferEvent struct {
	BatchID             string `json:"batch_id"`
	TransferNumber      string `json:"transfer_number"`
	Status              string `json:"status"`
	VoucherID           string `json:"voucher_id,omitempty"`
	ReversalVoucherID   string `json:"reversal_voucher_id,omitempty"`
	TotalTransferAmount string `json:"total_transfer_amount"`
	TotalApproved       int    `json:"total_approved"`
}
