package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType is the kind of accounting event a voucher records.
type VoucherType string

const (
	VoucherReceipt VoucherType = "receipt"
	VoucherPayment VoucherType = "payment"
	VoucherJournal VoucherType = "journal"
)

// IsValid reports whether t is a known voucher type.
func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherReceipt, VoucherPayment, VoucherJournal:
		return true
	}
	return false
}

// Prefix is the number prefix for the type: RV, PV or JV.
func (t VoucherType) Prefix() string {
	switch t {
	case VoucherReceipt:
		return "RV"
	case VoucherPayment:
		return "PV"
	default:
		return "JV"
	}
}

// EntrySide tells which column of a voucher line carries the amount.
type EntrySide string

const (
	EntryDebit  EntrySide = "debit"
	EntryCredit EntrySide = "credit"
)

// Entry is one voucher line. It always references exactly one ledger and
// carries a positive amount on exactly one side.
type Entry struct {
	LedgerID   string
	LedgerName string
	Side       EntrySide
	Amount     decimal.Decimal
}

// DebitEntry builds a debit line.
func DebitEntry(ledgerID string, amount decimal.Decimal) Entry {
	return Entry{LedgerID: ledgerID, Side: EntryDebit, Amount: amount}
}

// CreditEntry builds a credit line.
func CreditEntry(ledgerID string, amount decimal.Decimal) Entry {
	return Entry{LedgerID: ledgerID, Side: EntryCredit, Amount: amount}
}

// EntryFromColumns converts the two-column wire shape {debit, credit} into an
// Entry. Exactly one of the columns must be positive and the other zero.
func EntryFromColumns(ledgerID string, debit, credit decimal.Decimal) (Entry, error) {
	if debit.IsNegative() || credit.IsNegative() {
		return Entry{}, fmt.Errorf("%w: negative column on ledger %s", ErrInvalidEntry, ledgerID)
	}
	switch {
	case debit.IsPositive() && credit.IsZero():
		return DebitEntry(ledgerID, debit), nil
	case credit.IsPositive() && debit.IsZero():
		return CreditEntry(ledgerID, credit), nil
	}
	return Entry{}, fmt.Errorf("%w: ledger %s", ErrInvalidEntry, ledgerID)
}

// Debit is the debit column view of the entry.
func (e Entry) Debit() decimal.Decimal {
	if e.Side == EntryDebit {
		return e.Amount
	}
	return decimal.Zero
}

// Credit is the credit column view of the entry.
func (e Entry) Credit() decimal.Decimal {
	if e.Side == EntryCredit {
		return e.Amount
	}
	return decimal.Zero
}

// NetChange is debit minus credit.
func (e Entry) NetChange() decimal.Decimal {
	return e.Debit().Sub(e.Credit())
}

// Reversed returns the entry with its side swapped.
func (e Entry) Reversed() Entry {
	r := e
	if e.Side == EntryDebit {
		r.Side = EntryCredit
	} else {
		r.Side = EntryDebit
	}
	return r
}

// Validate checks the structural rules of a single line.
func (e Entry) Validate() error {
	if e.LedgerID == "" {
		return fmt.Errorf("%w: missing ledger id", ErrInvalidEntry)
	}
	if e.Side != EntryDebit && e.Side != EntryCredit {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidEntry, e.Side)
	}
	return ValidateAmount(e.Amount)
}

// BalanceTolerance is the largest accepted difference between total debit and total credit.
var BalanceTolerance = decimal.New(1, -2)

// SumEntries returns total debit and total credit.
func SumEntries(entries []Entry) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit())
		credit = credit.Add(e.Credit())
	}
	return debit, credit
}

// IsBalanced reports whether the two totals agree within BalanceTolerance.
func IsBalanced(debit, credit decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThanOrEqual(BalanceTolerance)
}

// ValidateEntries checks every line and the balance of the set, returning the totals.
func ValidateEntries(entries []Entry) (decimal.Decimal, decimal.Decimal, error) {
	var hasDebit, hasCredit bool
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("entry %d: %w", i+1, err)
		}
		hasDebit = hasDebit || e.Side == EntryDebit
		hasCredit = hasCredit || e.Side == EntryCredit
	}
	if !hasDebit || !hasCredit {
		return decimal.Zero, decimal.Zero, ErrNoEntries
	}

	debit, credit := SumEntries(entries)
	if !IsBalanced(debit, credit) {
		return debit, credit, fmt.Errorf("%w: debit %s, credit %s", ErrUnbalancedEntries, debit.StringFixed(2), credit.StringFixed(2))
	}
	return debit, credit, nil
}

// Reference points a voucher at the business event that produced it.
type Reference struct {
	Type string
	ID   string
}

// IsZero reports whether no reference is set.
func (r Reference) IsZero() bool {
	return r.Type == "" && r.ID == ""
}

// Validate requires type and id to be set together.
func (r Reference) Validate() error {
	if (r.Type == "") != (r.ID == "") {
		return ErrInvalidReferenceDetails
	}
	return nil
}

// Reference types written by this service.
const (
	ReferenceBankTransfer = "bank_transfer"
	ReferenceReversal     = "voucher_reversal"
)

// Voucher is an immutable, balanced set of entries.
type Voucher struct {
	CreatedAt   time.Time
	Date        time.Time
	Reference   Reference
	ReversalOf  *string
	ID          string
	Type        VoucherType
	Number      string
	Narration   string
	CreatedBy   string
	Entries     []Entry
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// IsReversal reports whether the voucher compensates another one.
func (v *Voucher) IsReversal() bool {
	return v.ReversalOf != nil
}

// Reversal builds the compensating voucher: same type, sides swapped, ReversalOf set.
// ID and Number are left for the caller to allocate.
func (v *Voucher) Reversal(date time.Time, narration, createdBy string) (*Voucher, error) {
	if v.IsReversal() {
		return nil, ErrCannotReverseReversal
	}
	if narration == "" {
		narration = "Reversal of " + v.Number
	}

	entries := make([]Entry, len(v.Entries))
	for i, e := range v.Entries {
		entries[i] = e.Reversed()
	}
	originalID := v.ID
	ref := v.Reference
	if ref.IsZero() {
		ref = Reference{Type: ReferenceReversal, ID: originalID}
	}

	return &Voucher{
		Type:        v.Type,
		Date:        date,
		Entries:     entries,
		TotalDebit:  v.TotalCredit,
		TotalCredit: v.TotalDebit,
		Narration:   narration,
		Reference:   ref,
		ReversalOf:  &originalID,
		CreatedBy:   createdBy,
	}, nil
}

// Period is a calendar month used to scope number sequences.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Key is the storage key of the period, e.g. "2406" for June 2024.
func (p Period) Key() string {
	return fmt.Sprintf("%02d%02d", p.Year%100, int(p.Month))
}

// FormatVoucherNumber renders PREFIX + YY + MM + 4-digit sequence, e.g. JV24060001.
func FormatVoucherNumber(t VoucherType, p Period, seq int64) string {
	return fmt.Sprintf("%s%s%04d", t.Prefix(), p.Key(), seq)
}

// FormatTransferNumber renders COMPANY + YY + MM + 4-digit sequence.
func FormatTransferNumber(company string, p Period, seq int64) string {
	return fmt.Sprintf("%s%s%04d", company, p.Key(), seq)
}

// VoucherFilter narrows voucher listings.
type VoucherFilter struct {
	From          *time.Time
	To            *time.Time
	Type          VoucherType
	ReferenceType string
	ReferenceID   string
	Limit         int
	Offset        int
}
