package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Classification decides how postings move a ledger's balance.
type Classification string

const (
	// ClassAssetLike ledgers grow with debits (cash, bank, receivables).
	ClassAssetLike Classification = "asset"
	// ClassLiabilityLike ledgers grow with credits (payables, sales, capital).
	ClassLiabilityLike Classification = "liability"
	// ClassParty ledgers are customer/producer accounts; they follow the asset rule.
	ClassParty Classification = "party"
)

// IsValid reports whether c is a known classification.
func (c Classification) IsValid() bool {
	switch c {
	case ClassAssetLike, ClassLiabilityLike, ClassParty:
		return true
	}
	return false
}

// NaturalSide is the side on which a positive balance of this classification sits.
func (c Classification) NaturalSide() BalanceSide {
	if c == ClassLiabilityLike {
		return SideCredit
	}
	return SideDebit
}

// BalanceSide labels a balance as a debit or a credit balance.
type BalanceSide string

const (
	SideDebit  BalanceSide = "Dr"
	SideCredit BalanceSide = "Cr"
)

// IsValid reports whether s is Dr or Cr.
func (s BalanceSide) IsValid() bool {
	return s == SideDebit || s == SideCredit
}

// Opposite returns the other side.
func (s BalanceSide) Opposite() BalanceSide {
	if s == SideDebit {
		return SideCredit
	}
	return SideDebit
}

// LedgerStatus is the lifecycle status of a ledger.
type LedgerStatus string

const (
	LedgerActive   LedgerStatus = "active"
	LedgerInactive LedgerStatus = "inactive"
)

// Ledger is an account in the chart of accounts with a running balance.
//
// CurrentBalance is signed relative to the classification's natural side:
// a positive value is a Dr balance for asset-like and party ledgers and a Cr
// balance for liability-like ledgers. CurrentSide is always derived from it.
type Ledger struct {
	ID             string
	Name           string
	Classification Classification
	OpeningBalance decimal.Decimal
	OpeningSide    BalanceSide
	CurrentBalance decimal.Decimal
	CurrentSide    BalanceSide
	Status         LedgerStatus
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewLedger builds an active ledger whose current balance equals its opening balance.
func NewLedger(id, name string, class Classification, opening decimal.Decimal, openingSide BalanceSide, now time.Time) (*Ledger, error) {
	if err := ValidateLedgerName(name); err != nil {
		return nil, err
	}
	if !class.IsValid() {
		return nil, ErrInvalidClassification
	}
	if openingSide == "" {
		openingSide = class.NaturalSide()
	}
	if !openingSide.IsValid() {
		return nil, ErrInvalidBalanceSide
	}
	if opening.IsNegative() {
		return nil, ErrNegativeOpeningBalance
	}
	if err := ValidateScale(opening); err != nil {
		return nil, err
	}

	l := &Ledger{
		ID:             id,
		Name:           normalizeName(name),
		Classification: class,
		OpeningBalance: opening,
		OpeningSide:    openingSide,
		CurrentBalance: SignedOpening(class, opening, openingSide),
		Status:         LedgerActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	l.CurrentSide = SideFor(class, l.CurrentBalance)

	return l, nil
}

// SignedOpening converts an unsigned opening balance into the signed representation.
func SignedOpening(class Classification, opening decimal.Decimal, side BalanceSide) decimal.Decimal {
	if side == class.NaturalSide() {
		return opening
	}
	return opening.Neg()
}

// SideFor derives the balance side of a signed balance for the given classification.
func SideFor(class Classification, balance decimal.Decimal) BalanceSide {
	if balance.IsNegative() {
		return class.NaturalSide().Opposite()
	}
	return class.NaturalSide()
}

// ApplyNetChange returns the balance after a posting of netChange (debit - credit).
func ApplyNetChange(class Classification, balance, netChange decimal.Decimal) decimal.Decimal {
	if class == ClassLiabilityLike {
		return balance.Sub(netChange)
	}
	return balance.Add(netChange)
}

// Post applies netChange to the ledger and recomputes its side.
func (l *Ledger) Post(netChange decimal.Decimal, at time.Time) {
	l.CurrentBalance = ApplyNetChange(l.Classification, l.CurrentBalance, netChange)
	l.CurrentSide = SideFor(l.Classification, l.CurrentBalance)
	l.Version++
	l.UpdatedAt = at
}

// Magnitude is the unsigned size of the current balance, shown next to CurrentSide.
func (l *Ledger) Magnitude() decimal.Decimal {
	return l.CurrentBalance.Abs()
}

// IsActive reports whether the ledger is active.
func (l *Ledger) IsActive() bool {
	return l.Status == LedgerActive
}

// Replay recomputes balance and side from the opening balance and an ordered
// sequence of net changes.
func (l *Ledger) Replay(netChanges []decimal.Decimal) (decimal.Decimal, BalanceSide) {
	balance := SignedOpening(l.Classification, l.OpeningBalance, l.OpeningSide)
	for _, change := range netChanges {
		balance = ApplyNetChange(l.Classification, balance, change)
	}
	return balance, SideFor(l.Classification, balance)
}

// LedgerPosting is the history row written for every entry applied to a ledger.
type LedgerPosting struct {
	ID            string
	VoucherID     string
	LedgerID      string
	LineNo        int
	NetChange     decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	SideAfter     BalanceSide
	LedgerVersion int64
	CreatedAt     time.Time
}

// LedgerFilter narrows ledger listings.
type LedgerFilter struct {
	Status         LedgerStatus
	Classification Classification
	Limit          int
	Offset         int
}

// System ledgers created on demand by the bank transfer engine.
const (
	LedgerBankTransferPayable = "Bank Transfer Payable"
	LedgerProducerPayable     = "Producer Payable"
)
