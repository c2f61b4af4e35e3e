package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs the struct tags of req and reports failures as validation errors.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, describe(err))
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// ParseDate parses a YYYY-MM-DD value. An empty string yields the zero time.
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in %s format", domain.ErrValidation, field, DateLayout)
	}
	return t, nil
}

// ParseAmount parses a decimal amount. An empty string yields zero.
func ParseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a valid amount", domain.ErrValidation, field)
	}
	return d, nil
}

// CreateLedgerRequest represents a request to create a ledger.
type CreateLedgerRequest struct {
	Name           string `json:"name"            validate:"required,max=255"`
	Classification string `json:"classification"  validate:"required,oneof=asset liability party"`
	OpeningBalance string `json:"opening_balance"`
	OpeningSide    string `json:"opening_side"    validate:"omitempty,oneof=Dr Cr"`
}

// ToUseCaseInput converts request to use case input.
func (r *CreateLedgerRequest) ToUseCaseInput() (usecase.CreateLedgerInput, error) {
	if err := Validate(r); err != nil {
		return usecase.CreateLedgerInput{}, err
	}
	opening, err := ParseAmount("opening_balance", r.OpeningBalance)
	if err != nil {
		return usecase.CreateLedgerInput{}, err
	}

	return usecase.CreateLedgerInput{
		Name:           r.Name,
		Classification: domain.Classification(r.Classification),
		OpeningBalance: opening,
		OpeningSide:    domain.BalanceSide(r.OpeningSide),
	}, nil
}

// EntryRequest is one voucher line in two-column form.
type EntryRequest struct {
	LedgerID string `json:"ledger_id" validate:"required"`
	Debit    string `json:"debit"`
	Credit   string `json:"credit"`
}

// CreateVoucherRequest represents a request to post a voucher.
type CreateVoucherRequest struct {
	Type          string         `json:"type"           validate:"required,oneof=receipt payment journal"`
	Date          string         `json:"date"           validate:"required"`
	Narration     string         `json:"narration"      validate:"max=1000"`
	ReferenceType string         `json:"reference_type"`
	ReferenceID   string         `json:"reference_id"`
	Entries       []EntryRequest `json:"entries"        validate:"required,min=2,dive"`
}

// ToUseCaseInput converts request to use case input.
func (r *CreateVoucherRequest) ToUseCaseInput() (usecase.CreateVoucherInput, error) {
	if err := Validate(r); err != nil {
		return usecase.CreateVoucherInput{}, err
	}
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return usecase.CreateVoucherInput{}, err
	}

	entries := make([]domain.Entry, 0, len(r.Entries))
	for i, e := range r.Entries {
		debit, err := ParseAmount(fmt.Sprintf("entries[%d].debit", i), e.Debit)
		if err != nil {
			return usecase.CreateVoucherInput{}, err
		}
		credit, err := ParseAmount(fmt.Sprintf("entries[%d].credit", i), e.Credit)
		if err != nil {
			return usecase.CreateVoucherInput{}, err
		}
		entry, err := domain.EntryFromColumns(e.LedgerID, debit, credit)
		if err != nil {
			return usecase.CreateVoucherInput{}, err
		}
		entries = append(entries, entry)
	}

	return usecase.CreateVoucherInput{
		Type:      domain.VoucherType(r.Type),
		Date:      date,
		Narration: r.Narration,
		Reference: domain.Reference{Type: r.ReferenceType, ID: r.ReferenceID},
		Entries:   entries,
	}, nil
}

// ReverseVoucherRequest represents a request to reverse a voucher.
// Date defaults to the original voucher's date.
type ReverseVoucherRequest struct {
	Date      string `json:"date"`
	Narration string `json:"narration" validate:"max=1000"`
}

// ToUseCaseInput converts request to use case input.
func (r *ReverseVoucherRequest) ToUseCaseInput(voucherID string) (usecase.ReverseVoucherInput, error) {
	if err := Validate(r); err != nil {
		return usecase.ReverseVoucherInput{}, err
	}
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return usecase.ReverseVoucherInput{}, err
	}

	return usecase.ReverseVoucherInput{
		VoucherID: voucherID,
		Date:      date,
		Narration: r.Narration,
	}, nil
}

// RetrieveBalancesRequest selects the producers and basis of a draft batch.
type RetrieveBalancesRequest struct {
	Basis              string `json:"basis"                validate:"required,oneof=as_on_date_balance last_processed_period"`
	AsOnDate           string `json:"as_on_date"           validate:"required"`
	CollectionCenterID string `json:"collection_center_id"`
	BankID             string `json:"bank_id"`
	RoundDownUnit      int64  `json:"round_down_unit"      validate:"required,gt=0"`
	DueByList          bool   `json:"due_by_list"`
}

// ToCriteria converts request to retrieval criteria.
func (r *RetrieveBalancesRequest) ToCriteria() (domain.RetrieveCriteria, error) {
	if err := Validate(r); err != nil {
		return domain.RetrieveCriteria{}, err
	}
	asOn, err := ParseDate("as_on_date", r.AsOnDate)
	if err != nil {
		return domain.RetrieveCriteria{}, err
	}

	return domain.RetrieveCriteria{
		Basis:         domain.TransferBasis(r.Basis),
		AsOnDate:      asOn,
		Filter:        domain.TransferFilter{CollectionCenterID: r.CollectionCenterID, BankID: r.BankID},
		RoundDownUnit: r.RoundDownUnit,
		DueByList:     r.DueByList,
	}, nil
}

// BankDetailsPayload carries a producer's payout account.
type BankDetailsPayload struct {
	BankID        string `json:"bank_id,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	Branch        string `json:"branch,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountHolder string `json:"account_holder,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
}

func (b BankDetailsPayload) toDomain() domain.BankDetails {
	return domain.BankDetails(b)
}

// TransferDetailRequest is one retrieved line with the caller's approval.
type TransferDetailRequest struct {
	ProducerID     string             `json:"producer_id"     validate:"required"`
	ProducerName   string             `json:"producer_name"`
	Bank           BankDetailsPayload `json:"bank"`
	NetPayable     string             `json:"net_payable"`
	TransferAmount string             `json:"transfer_amount"`
	Approved       bool               `json:"approved"`
}

// ApplyTransferRequest represents a request to apply a retrieved list.
type ApplyTransferRequest struct {
	Basis              string                  `json:"basis"                validate:"required,oneof=as_on_date_balance last_processed_period"`
	AsOnDate           string                  `json:"as_on_date"           validate:"required"`
	ApplyDate          string                  `json:"apply_date"`
	CollectionCenterID string                  `json:"collection_center_id"`
	BankID             string                  `json:"bank_id"`
	Remarks            string                  `json:"remarks"              validate:"max=1000"`
	RoundDownUnit      int64                   `json:"round_down_unit"      validate:"required,gt=0"`
	Details            []TransferDetailRequest `json:"details"              validate:"required,min=1,dive"`
}

// ToUseCaseInput converts request to use case input. ApplyDate defaults to AsOnDate.
func (r *ApplyTransferRequest) ToUseCaseInput() (usecase.ApplyTransferInput, error) {
	if err := Validate(r); err != nil {
		return usecase.ApplyTransferInput{}, err
	}
	asOn, err := ParseDate("as_on_date", r.AsOnDate)
	if err != nil {
		return usecase.ApplyTransferInput{}, err
	}
	applyDate, err := ParseDate("apply_date", r.ApplyDate)
	if err != nil {
		return usecase.ApplyTransferInput{}, err
	}
	if applyDate.IsZero() {
		applyDate = asOn
	}

	details := make([]domain.TransferDetail, 0, len(r.Details))
	for i, d := range r.Details {
		net, err := ParseAmount(fmt.Sprintf("details[%d].net_payable", i), d.NetPayable)
		if err != nil {
			return usecase.ApplyTransferInput{}, err
		}
		amount, err := ParseAmount(fmt.Sprintf("details[%d].transfer_amount", i), d.TransferAmount)
		if err != nil {
			return usecase.ApplyTransferInput{}, err
		}
		details = append(details, domain.TransferDetail{
			ProducerID:     d.ProducerID,
			ProducerName:   d.ProducerName,
			Bank:           d.Bank.toDomain(),
			NetPayable:     net,
			TransferAmount: amount,
			Approved:       d.Approved,
			TransferStatus: domain.TransferPending,
		})
	}

	return usecase.ApplyTransferInput{
		Basis:         domain.TransferBasis(r.Basis),
		AsOnDate:      asOn,
		ApplyDate:     applyDate,
		Filter:        domain.TransferFilter{CollectionCenterID: r.CollectionCenterID, BankID: r.BankID},
		Remarks:       r.Remarks,
		RoundDownUnit: r.RoundDownUnit,
		Details:       details,
	}, nil
}

// CancelTransferRequest represents a request to cancel an applied batch.
type CancelTransferRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// ToUseCaseInput converts request to use case input.
func (r *CancelTransferRequest) ToUseCaseInput(batchID string) (usecase.CancelTransferInput, error) {
	if err := Validate(r); err != nil {
		return usecase.CancelTransferInput{}, err
	}
	return usecase.CancelTransferInput{BatchID: batchID, Reason: r.Reason}, nil
}
