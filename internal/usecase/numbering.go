package usecase

import (
	"context"
	"fmt"

	"github.com/dairycoop/dairyledger/internal/domain"
)

// Sequence scopes.
const (
	voucherScopePrefix      = "voucher:"
	bankTransferScopePrefix = "bank_transfer:"
)

// NumberingService allocates human readable document numbers.
//
// Allocation runs inside the caller's transaction: the counter row stays
// locked until commit, and a rollback hands the number back.
type NumberingService struct {
	seqRepo SequenceRepository
}

// NewNumberingService creates a new NumberingService.
func NewNumberingService(seqRepo SequenceRepository) *NumberingService {
	return &NumberingService{seqRepo: seqRepo}
}

// NextNumber returns the next voucher number of the type within period, e.g. JV24060001.
func (s *NumberingService) NextNumber(ctx context.Context, tx Transaction, voucherType domain.VoucherType, period domain.Period) (string, error) {
	if !voucherType.IsValid() {
		return "", domain.ErrInvalidVoucherType
	}

	seq, err := s.seqRepo.Next(ctx, tx, voucherScopePrefix+string(voucherType), period.Key())
	if err != nil {
		return "", fmt.Errorf("allocate %s number: %w", voucherType, err)
	}

	return domain.FormatVoucherNumber(voucherType, period, seq), nil
}

// NextTransferNumber returns the next bank transfer number of the company within period.
func (s *NumberingService) NextTransferNumber(ctx context.Context, tx Transaction, company string, period domain.Period) (string, error) {
	seq, err := s.seqRepo.Next(ctx, tx, bankTransferScopePrefix+company, period.Key())
	if err != nil {
		return "", fmt.Errorf("allocate transfer number: %w", err)
	}

	return domain.FormatTransferNumber(company, period, seq), nil
}
