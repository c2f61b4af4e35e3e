package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is an audit trail entry written next to a state change.
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	Action       string // bank_transfer.apply, voucher.reverse, ...
	ResourceType string
	ResourceID   string
	IPAddress    string
	UserAgent    string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string // success, failure, error
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionLedgerCreate         AuditAction = "ledger.create"
	AuditActionVoucherCreate        AuditAction = "voucher.create"
	AuditActionVoucherReverse       AuditAction = "voucher.reverse"
	AuditActionBankTransferApply    AuditAction = "bank_transfer.apply"
	AuditActionBankTransferCancel   AuditAction = "bank_transfer.cancel"
	AuditActionBankTransferComplete AuditAction = "bank_transfer.complete"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
