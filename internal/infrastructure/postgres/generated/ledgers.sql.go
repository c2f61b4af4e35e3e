package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLedger = `-- name: CreateLedger :exec
INSERT INTO ledgers (id, name, classification, opening_balance, opening_side, current_balance, current_side, status, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type CreateLedgerParams struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Classification string             `json:"classification"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	OpeningSide    string             `json:"opening_side"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	CurrentSide    string             `json:"current_side"`
	Status         string             `json:"status"`
	Version        int64              `json:"version"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateLedger(ctx context.Context, arg CreateLedgerParams) error {
	_, err := q.db.Exec(ctx, createLedger,
		arg.ID,
		arg.Name,
		arg.Classification,
		arg.OpeningBalance,
		arg.OpeningSide,
		arg.CurrentBalance,
		arg.CurrentSide,
		arg.Status,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const insertLedgerIfAbsent = `-- name: InsertLedgerIfAbsent :exec
INSERT INTO ledgers (id, name, classification, opening_balance, opening_side, current_balance, current_side, status, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT DO NOTHING
`

func (q *Queries) InsertLedgerIfAbsent(ctx context.Context, arg CreateLedgerParams) error {
	_, err := q.db.Exec(ctx, insertLedgerIfAbsent,
		arg.ID,
		arg.Name,
		arg.Classification,
		arg.OpeningBalance,
		arg.OpeningSide,
		arg.CurrentBalance,
		arg.CurrentSide,
		arg.Status,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getActiveLedgerByNameForUpdate = `-- name: GetActiveLedgerByNameForUpdate :one
SELECT id, name, classification, opening_balance, opening_side, current_balance, current_side, status, version, created_at, updated_at FROM ledgers
WHERE lower(name) = lower($1) AND status = 'active'
FOR UPDATE
`

func (q *Queries) GetActiveLedgerByNameForUpdate(ctx context.Context, name string) (Ledger, error) {
	row := q.db.QueryRow(ctx, getActiveLedgerByNameForUpdate, name)
	var i Ledger
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Classification,
		&i.OpeningBalance,
		&i.OpeningSide,
		&i.CurrentBalance,
		&i.CurrentSide,
		&i.Status,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getLedgerByID = `-- name: GetLedgerByID :one
SELECT id, name, classification, opening_balance, opening_side, current_balance, current_side, status, version, created_at, updated_at FROM ledgers WHERE id = $1
`

func (q *Queries) GetLedgerByID(ctx context.Context, id string) (Ledger, error) {
	row := q.db.QueryRow(ctx, getLedgerByID, id)
	var i Ledger
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Classification,
		&i.OpeningBalance,
		&i.OpeningSide,
		&i.CurrentBalance,
		&i.CurrentSide,
		&i.Status,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getLedgersByIDsForUpdate = `-- name: GetLedgersByIDsForUpdate :many
SELECT id, name, classification, opening_balance, opening_side, current_balance, current_side, status, version, created_at, updated_at FROM ledgers WHERE id = ANY($1::text[]) ORDER BY id FOR UPDATE
`

func (q *Queries) GetLedgersByIDsForUpdate(ctx context.Context, dollar_1 []string) ([]Ledger, error) {
	rows, err := q.db.Query(ctx, getLedgersByIDsForUpdate, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Ledger{}
	for rows.Next() {
		var i Ledger
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Classification,
			&i.OpeningBalance,
			&i.OpeningSide,
			&i.CurrentBalance,
			&i.CurrentSide,
			&i.Status,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listLedgers = `-- name: ListLedgers :many
SELECT id, name, classification, opening_balance, opening_side, current_balance, current_side, status, version, created_at, updated_at FROM ledgers
WHERE ($1::text = '' OR status = $1)
  AND ($2::text = '' OR classification = $2)
ORDER BY name
LIMIT $3 OFFSET $4
`

type ListLedgersParams struct {
	Status         string `json:"status"`
	Classification string `json:"classification"`
	Limit          int32  `json:"limit"`
	Offset         int32  `json:"offset"`
}

func (q *Queries) ListLedgers(ctx context.Context, arg ListLedgersParams) ([]Ledger, error) {
	rows, err := q.db.Query(ctx, listLedgers,
		arg.Status,
		arg.Classification,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Ledger{}
	for rows.Next() {
		var i Ledger
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Classification,
			&i.OpeningBalance,
			&i.OpeningSide,
			&i.CurrentBalance,
			&i.CurrentSide,
			&i.Status,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateLedgerBalance = `-- name: UpdateLedgerBalance :execrows
UPDATE ledgers
SET current_balance = $2, current_side = $3, version = $4, updated_at = $5
WHERE id = $1 AND version = $6
`

type UpdateLedgerBalanceParams struct {
	ID              string             `json:"id"`
	CurrentBalance  pgtype.Numeric     `json:"current_balance"`
	CurrentSide     string             `json:"current_side"`
	Version         int64              `json:"version"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
	ExpectedVersion int64              `json:"expected_version"`
}

func (q *Queries) UpdateLedgerBalance(ctx context.Context, arg UpdateLedgerBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateLedgerBalance,
		arg.ID,
		arg.CurrentBalance,
		arg.CurrentSide,
		arg.Version,
		arg.UpdatedAt,
		arg.ExpectedVersion,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
