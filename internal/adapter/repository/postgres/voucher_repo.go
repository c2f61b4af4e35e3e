package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/postgres/generated"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

const defaultVoucherPageSize = 50

// VoucherRepository implements usecase.VoucherRepository.
type VoucherRepository struct {
	queries *generated.Queries
}

// NewVoucherRepository creates a new VoucherRepository.
func NewVoucherRepository(db generated.DBTX) *VoucherRepository {
	return &VoucherRepository{queries: generated.New(db)}
}

// Create inserts the voucher header followed by its entries.
func (r *VoucherRepository) Create(ctx context.Context, tx usecase.Transaction, v *domain.Voucher) error {
	q := txQueries(tx)

	err := q.CreateVoucher(ctx, generated.CreateVoucherParams{
		ID:            v.ID,
		Type:          string(v.Type),
		Number:        v.Number,
		Date:          timeToPgDate(v.Date),
		Narration:     v.Narration,
		ReferenceType: v.Reference.Type,
		ReferenceID:   v.Reference.ID,
		ReversalOf:    stringPtrToPgText(v.ReversalOf),
		TotalDebit:    decimalToNumeric(v.TotalDebit),
		TotalCredit:   decimalToNumeric(v.TotalCredit),
		CreatedBy:     v.CreatedBy,
		CreatedAt:     timeToPgTimestamptz(v.CreatedAt),
	})
	if err != nil {
		return mapUniqueViolation(err)
	}

	for i, e := range v.Entries {
		err := q.CreateVoucherEntry(ctx, generated.CreateVoucherEntryParams{
			VoucherID:  v.ID,
			LineNo:     int32(i + 1),
			LedgerID:   e.LedgerID,
			LedgerName: e.LedgerName,
			Side:       string(e.Side),
			Amount:     decimalToNumeric(e.Amount),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a voucher with its entries.
func (r *VoucherRepository) GetByID(ctx context.Context, id string) (*domain.Voucher, error) {
	row, err := r.queries.GetVoucherByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVoucherNotFound
		}
		return nil, err
	}

	return r.withEntries(ctx, r.queries, row)
}

// GetByIDForUpdate locks the voucher row and returns it with its entries.
func (r *VoucherRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Voucher, error) {
	q := txQueries(tx)

	row, err := q.GetVoucherByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVoucherNotFound
		}
		return nil, err
	}

	return r.withEntries(ctx, q, row)
}

// HasReversal reports whether a reversal of id exists.
func (r *VoucherRepository) HasReversal(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	return txQueries(tx).VoucherHasReversal(ctx, id)
}

// List lists vouchers newest first.
func (r *VoucherRepository) List(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	limit, offset := limitOffset(filter.Limit, filter.Offset, defaultVoucherPageSize)

	rows, err := r.queries.ListVouchers(ctx, generated.ListVouchersParams{
		Type:          string(filter.Type),
		ReferenceType: filter.ReferenceType,
		ReferenceID:   filter.ReferenceID,
		FromDate:      timePtrToPgDate(filter.From),
		ToDate:        timePtrToPgDate(filter.To),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, err
	}

	vouchers := make([]*domain.Voucher, 0, len(rows))
	for _, row := range rows {
		v, err := r.withEntries(ctx, r.queries, row)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}

	return vouchers, nil
}

// Totals sums all vouchers for the consistency check.
func (r *VoucherRepository) Totals(ctx context.Context) (usecase.VoucherTotals, error) {
	row, err := r.queries.VoucherTotals(ctx)
	if err != nil {
		return usecase.VoucherTotals{}, err
	}

	return usecase.VoucherTotals{
		TotalDebit:         numericToDecimal(row.TotalDebit),
		TotalCredit:        numericToDecimal(row.TotalCredit),
		VoucherCount:       row.VoucherCount,
		UnbalancedVouchers: row.UnbalancedVouchers,
	}, nil
}

func (r *VoucherRepository) withEntries(ctx context.Context, q *generated.Queries, row generated.Voucher) (*domain.Voucher, error) {
	entryRows, err := q.ListVoucherEntries(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	v := rowToVoucher(row)
	v.Entries = make([]domain.Entry, len(entryRows))
	for i, e := range entryRows {
		v.Entries[i] = domain.Entry{
			LedgerID:   e.LedgerID,
			LedgerName: e.LedgerName,
			Side:       domain.EntrySide(e.Side),
			Amount:     numericToDecimal(e.Amount),
		}
	}

	return v, nil
}

func rowToVoucher(row generated.Voucher) *domain.Voucher {
	return &domain.Voucher{
		ID:          row.ID,
		Type:        domain.VoucherType(row.Type),
		Number:      row.Number,
		Date:        pgDateToTime(row.Date),
		Narration:   row.Narration,
		Reference:   domain.Reference{Type: row.ReferenceType, ID: row.ReferenceID},
		ReversalOf:  pgTextToPtr(row.ReversalOf),
		TotalDebit:  numericToDecimal(row.TotalDebit),
		TotalCredit: numericToDecimal(row.TotalCredit),
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt.Time,
	}
}
