package postgres

import (
	"context"

	"github.com/dairycoop/dairyledger/internal/infrastructure/postgres/generated"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

// SequenceRepository implements usecase.SequenceRepository on the
// number_sequences table. The upsert holds the counter row lock until the
// surrounding transaction ends.
type SequenceRepository struct{}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{}
}

// Next increments and returns the counter of (scope, period).
func (r *SequenceRepository) Next(ctx context.Context, tx usecase.Transaction, scope, period string) (int64, error) {
	return txQueries(tx).NextSequenceValue(ctx, generated.NextSequenceValueParams{
		Scope:  scope,
		Period: period,
	})
}
