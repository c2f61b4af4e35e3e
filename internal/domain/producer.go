package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProducerStatus is the membership status of a producer.
type ProducerStatus string

const (
	ProducerActive   ProducerStatus = "active"
	ProducerInactive ProducerStatus = "inactive"
)

// BankDetails is the payout account of a producer. Batches keep a copy taken
// at apply time so later edits do not change what was sent.
type BankDetails struct {
	BankID        string `json:"bank_id,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	Branch        string `json:"branch,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountHolder string `json:"account_holder,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
}

// Producer is a payee as supplied by the producer directory.
type Producer struct {
	ID                 string
	Name               string
	CollectionCenterID string
	Bank               BankDetails
	Status             ProducerStatus
}

// PaymentStatus is the status of a producer payment record.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRejected PaymentStatus = "rejected"
)

// PaymentTotals are summed payment columns for one producer.
type PaymentTotals struct {
	MilkAmount decimal.Decimal
	Deductions decimal.Decimal
	PaidAmount decimal.Decimal
}

// NetPayable is milk minus deductions minus what was already paid.
func (t PaymentTotals) NetPayable() decimal.Decimal {
	return t.MilkAmount.Sub(t.Deductions).Sub(t.PaidAmount)
}

// PaymentQuery selects the payment records summed for one producer.
type PaymentQuery struct {
	From       *time.Time
	To         time.Time
	ProducerID string
	Statuses   []PaymentStatus
}

// PaymentRecord is a single payment period row of a producer.
type PaymentRecord struct {
	PaymentDate time.Time
	ProducerID  string
	Status      PaymentStatus
	MilkAmount  decimal.Decimal
	Deductions  decimal.Decimal
	NetPayable  decimal.Decimal
	PaidAmount  decimal.Decimal
}

// Outstanding is the part of the record's net payable not yet paid.
func (p PaymentRecord) Outstanding() decimal.Decimal {
	return p.NetPayable.Sub(p.PaidAmount)
}
