package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/postgres/generated"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

const defaultLedgerPageSize = 100

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Create inserts a ledger.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) error {
	err := txQueries(tx).CreateLedger(ctx, ledgerToParams(ledger))
	return mapUniqueViolation(err)
}

// Ensure inserts ledger unless an active ledger of that name exists and
// returns the stored row locked for update.
func (r *LedgerRepository) Ensure(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) (*domain.Ledger, error) {
	q := txQueries(tx)

	if err := q.InsertLedgerIfAbsent(ctx, ledgerToParams(ledger)); err != nil {
		return nil, err
	}

	row, err := q.GetActiveLedgerByNameForUpdate(ctx, ledger.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLedgerNotFound
		}
		return nil, err
	}

	return rowToLedger(row), nil
}

// GetByID retrieves a ledger by ID.
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*domain.Ledger, error) {
	row, err := r.queries.GetLedgerByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLedgerNotFound
		}
		return nil, err
	}

	return rowToLedger(row), nil
}

// GetByIDsForUpdate locks the ledgers and returns them in the order of ids.
func (r *LedgerRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Ledger, error) {
	rows, err := txQueries(tx).GetLedgersByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Ledger, len(rows))
	for _, row := range rows {
		byID[row.ID] = rowToLedger(row)
	}

	ledgers := make([]*domain.Ledger, 0, len(rows))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			ledgers = append(ledgers, l)
		}
	}

	return ledgers, nil
}

// UpdateBalance writes the balance when the stored version matches expectedVersion.
func (r *LedgerRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger, expectedVersion int64) error {
	affected, err := txQueries(tx).UpdateLedgerBalance(ctx, generated.UpdateLedgerBalanceParams{
		ID:              ledger.ID,
		CurrentBalance:  decimalToNumeric(ledger.CurrentBalance),
		CurrentSide:     string(ledger.CurrentSide),
		Version:         ledger.Version,
		UpdatedAt:       timeToPgTimestamptz(ledger.UpdatedAt),
		ExpectedVersion: expectedVersion,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrStaleLedgerVersion
	}

	return nil
}

// List lists ledgers ordered by name.
func (r *LedgerRepository) List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Ledger, error) {
	limit, offset := limitOffset(filter.Limit, filter.Offset, defaultLedgerPageSize)

	rows, err := r.queries.ListLedgers(ctx, generated.ListLedgersParams{
		Status:         string(filter.Status),
		Classification: string(filter.Classification),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return nil, err
	}

	ledgers := make([]*domain.Ledger, len(rows))
	for i, row := range rows {
		ledgers[i] = rowToLedger(row)
	}

	return ledgers, nil
}

func ledgerToParams(l *domain.Ledger) generated.CreateLedgerParams {
	return generated.CreateLedgerParams{
		ID:             l.ID,
		Name:           l.Name,
		Classification: string(l.Classification),
		OpeningBalance: decimalToNumeric(l.OpeningBalance),
		OpeningSide:    string(l.OpeningSide),
		CurrentBalance: decimalToNumeric(l.CurrentBalance),
		CurrentSide:    string(l.CurrentSide),
		Status:         string(l.Status),
		Version:        l.Version,
		CreatedAt:      timeToPgTimestamptz(l.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(l.UpdatedAt),
	}
}

func rowToLedger(row generated.Ledger) *domain.Ledger {
	return &domain.Ledger{
		ID:             row.ID,
		Name:           row.Name,
		Classification: domain.Classification(row.Classification),
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		OpeningSide:    domain.BalanceSide(row.OpeningSide),
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		CurrentSide:    domain.BalanceSide(row.CurrentSide),
		Status:         domain.LedgerStatus(row.Status),
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
