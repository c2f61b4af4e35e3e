package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxLedgerNameLength = 255
	MaxNarrationLength  = 1000
	MaxVoucherAmount    = "1000000000000" // 1 trillion
	MinVoucherAmount    = "0.01"
	MaxAmountScale      = 2
	MaxPageSize         = 1000
	DefaultPageSize     = 50
)

var (
	maxVoucherAmount = decimal.RequireFromString(MaxVoucherAmount)
	minVoucherAmount = decimal.RequireFromString(MinVoucherAmount)
)

// ValidateLedgerName validates a ledger name.
func ValidateLedgerName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidLedgerName)
	}

	if utf8.RuneCountInString(name) > MaxLedgerNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidLedgerName, MaxLedgerNameLength)
	}

	return nil
}

// normalizeName trims and collapses inner whitespace so "Producer  Payable"
// and "Producer Payable" are the same ledger.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ValidateAmount validates an entry amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.LessThan(minVoucherAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrInvalidAmount, MinVoucherAmount)
	}

	if amount.GreaterThan(maxVoucherAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxVoucherAmount)
	}

	return ValidateScale(amount)
}

// ValidateScale rejects amounts with more than MaxAmountScale decimal places.
// Trailing zeros are fine: 12.500 is accepted.
func ValidateScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrAmountScale, MaxAmountScale)
	}
	return nil
}

// ValidateNarration validates free text attached to a voucher.
func ValidateNarration(narration string) error {
	if utf8.RuneCountInString(narration) > MaxNarrationLength {
		return fmt.Errorf("%w: narration exceeds %d characters", ErrValidation, MaxNarrationLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	if limit < 0 || offset < 0 {
		return 0, 0, ErrInvalidPagination
	}

	if limit == 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return limit, offset, nil
}
