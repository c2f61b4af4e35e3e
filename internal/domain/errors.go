package domain

import (
	"errors"
	"fmt"
)

// Error classes. The concrete errors below wrap one of them so callers can
// branch on the class with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrDuplicate    = errors.New("duplicate")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConcurrency  = errors.New("concurrent modification, retry the operation")
)

var (
	// Ledger errors
	ErrLedgerNotFound         = fmt.Errorf("ledger %w", ErrNotFound)
	ErrDuplicateLedgerName    = fmt.Errorf("%w: an active ledger with this name already exists", ErrDuplicate)
	ErrInvalidLedgerName      = fmt.Errorf("%w: invalid ledger name", ErrValidation)
	ErrInvalidClassification  = fmt.Errorf("%w: invalid ledger classification", ErrValidation)
	ErrInvalidBalanceSide     = fmt.Errorf("%w: balance side must be Dr or Cr", ErrValidation)
	ErrNegativeOpeningBalance = fmt.Errorf("%w: opening balance cannot be negative", ErrValidation)
	ErrStaleLedgerVersion     = fmt.Errorf("ledger balance changed underneath posting: %w", ErrConcurrency)

	// Voucher errors
	ErrVoucherNotFound        = fmt.Errorf("voucher %w", ErrNotFound)
	ErrUnbalancedEntries      = fmt.Errorf("%w: total debit does not equal total credit", ErrValidation)
	ErrInvalidEntry           = fmt.Errorf("%w: entry must reference a ledger and carry exactly one positive side", ErrValidation)
	ErrNoEntries              = fmt.Errorf("%w: voucher needs at least one debit and one credit entry", ErrValidation)
	ErrInvalidVoucherType     = fmt.Errorf("%w: voucher type must be receipt, payment or journal", ErrValidation)
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrAmountTooLarge         = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrAmountScale            = fmt.Errorf("%w: amount has too many decimal places", ErrValidation)
	ErrMissingDate            = fmt.Errorf("%w: date is required", ErrValidation)
	ErrVoucherAlreadyReversed = fmt.Errorf("%w: voucher already has a reversal", ErrInvalidState)
	ErrCannotReverseReversal  = fmt.Errorf("%w: a reversal voucher cannot be reversed", ErrInvalidState)

	// Bank transfer errors
	ErrBatchNotFound           = fmt.Errorf("bank transfer batch %w", ErrNotFound)
	ErrNoApprovedTransfers     = fmt.Errorf("%w: no approved transfers with a positive amount", ErrValidation)
	ErrInvalidRoundDownUnit    = fmt.Errorf("%w: round-down unit must be a positive integer", ErrValidation)
	ErrInvalidTransferBasis    = fmt.Errorf("%w: invalid transfer basis", ErrValidation)
	ErrDuplicateProducer       = fmt.Errorf("%w: producer appears more than once in the batch", ErrValidation)
	ErrTransferAmountMismatch  = fmt.Errorf("%w: transfer amount must be the net payable rounded down to the unit", ErrValidation)
	ErrInvalidBatchTransition  = fmt.Errorf("%w: illegal bank transfer status transition", ErrInvalidState)
	ErrBatchVoucherMissing     = fmt.Errorf("%w: applied batch has no voucher", ErrInvalidState)
	ErrInvalidPagination       = fmt.Errorf("%w: invalid pagination", ErrValidation)
	ErrInvalidReferenceDetails = fmt.Errorf("%w: reference type and id must be set together", ErrValidation)
)

// IsRetryable reports whether err signals a conflict that is safe to retry as a whole.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrency)
}

// ErrorClass names the class err belongs to, for metric labels and logs.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrConcurrency):
		return "concurrency"
	default:
		return "internal"
	}
}
