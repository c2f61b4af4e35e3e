package generated

import (
	"context"
)

const nextSequenceValue = `-- name: NextSequenceValue :one
INSERT INTO number_sequences (scope, period, value)
VALUES ($1, $2, 1)
ON CONFLICT (scope, period) DO UPDATE SET value = number_sequences.value + 1
RETURNING value
`

type NextSequenceValueParams struct {
	Scope  string `json:"scope"`
	Period string `json:"period"`
}

func (q *Queries) NextSequenceValue(ctx context.Context, arg NextSequenceValueParams) (int64, error) {
	row := q.db.QueryRow(ctx, nextSequenceValue, arg.Scope, arg.Period)
	var value int64
	err := row.Scan(&value)
	return value, err
}
