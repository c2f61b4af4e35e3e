package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/postgres/generated"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

const defaultPostingPageSize = 100

// PostingRepository implements usecase.PostingRepository.
type PostingRepository struct {
	queries *generated.Queries
}

// NewPostingRepository creates a new PostingRepository.
func NewPostingRepository(db generated.DBTX) *PostingRepository {
	return &PostingRepository{queries: generated.New(db)}
}

// Create records a posting inside tx.
func (r *PostingRepository) Create(ctx context.Context, tx usecase.Transaction, p *domain.LedgerPosting) error {
	err := txQueries(tx).CreateLedgerPosting(ctx, generated.CreateLedgerPostingParams{
		ID:            p.ID,
		VoucherID:     p.VoucherID,
		LedgerID:      p.LedgerID,
		LineNo:        int32(p.LineNo),
		NetChange:     decimalToNumeric(p.NetChange),
		BalanceBefore: decimalToNumeric(p.BalanceBefore),
		BalanceAfter:  decimalToNumeric(p.BalanceAfter),
		SideAfter:     string(p.SideAfter),
		LedgerVersion: p.LedgerVersion,
		CreatedAt:     timeToPgTimestamptz(p.CreatedAt),
	})
	return mapUniqueViolation(err)
}

// ListByLedger lists postings of a ledger in posting order.
func (r *PostingRepository) ListByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]*domain.LedgerPosting, error) {
	l, o := limitOffset(limit, offset, defaultPostingPageSize)

	rows, err := r.queries.ListPostingsByLedger(ctx, generated.ListPostingsByLedgerParams{
		LedgerID: ledgerID,
		Limit:    l,
		Offset:   o,
	})
	if err != nil {
		return nil, err
	}

	postings := make([]*domain.LedgerPosting, len(rows))
	for i, row := range rows {
		postings[i] = &domain.LedgerPosting{
			ID:            row.ID,
			VoucherID:     row.VoucherID,
			LedgerID:      row.LedgerID,
			LineNo:        int(row.LineNo),
			NetChange:     numericToDecimal(row.NetChange),
			BalanceBefore: numericToDecimal(row.BalanceBefore),
			BalanceAfter:  numericToDecimal(row.BalanceAfter),
			SideAfter:     domain.BalanceSide(row.SideAfter),
			LedgerVersion: row.LedgerVersion,
			CreatedAt:     row.CreatedAt.Time,
		}
	}

	return postings, nil
}

// NetChanges returns every net change of the ledger in posting order.
func (r *PostingRepository) NetChanges(ctx context.Context, ledgerID string) ([]decimal.Decimal, error) {
	rows, err := r.queries.ListNetChangesByLedger(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	changes := make([]decimal.Decimal, len(rows))
	for i, n := range rows {
		changes[i] = numericToDecimal(n)
	}

	return changes, nil
}

// SumNetChange sums net changes over all postings.
func (r *PostingRepository) SumNetChange(ctx context.Context) (decimal.Decimal, error) {
	total, err := r.queries.SumPostingNetChange(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(total), nil
}
