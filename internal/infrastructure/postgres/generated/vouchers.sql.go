package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createVoucher = `-- name: CreateVoucher :exec
INSERT INTO vouchers (id, type, number, date, narration, reference_type, reference_id, reversal_of, total_debit, total_credit, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

type CreateVoucherParams struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	Number        string             `json:"number"`
	Date          pgtype.Date        `json:"date"`
	Narration     string             `json:"narration"`
	ReferenceType string             `json:"reference_type"`
	ReferenceID   string             `json:"reference_id"`
	ReversalOf    pgtype.Text        `json:"reversal_of"`
	TotalDebit    pgtype.Numeric     `json:"total_debit"`
	TotalCredit   pgtype.Numeric     `json:"total_credit"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateVoucher(ctx context.Context, arg CreateVoucherParams) error {
	_, err := q.db.Exec(ctx, createVoucher,
		arg.ID,
		arg.Type,
		arg.Number,
		arg.Date,
		arg.Narration,
		arg.ReferenceType,
		arg.ReferenceID,
		arg.ReversalOf,
		arg.TotalDebit,
		arg.TotalCredit,
		arg.CreatedBy,
		arg.CreatedAt,
	)
	return err
}

const createVoucherEntry = `-- name: CreateVoucherEntry :exec
INSERT INTO voucher_entries (voucher_id, line_no, ledger_id, ledger_name, side, amount)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateVoucherEntryParams struct {
	VoucherID  string         `json:"voucher_id"`
	LineNo     int32          `json:"line_no"`
	LedgerID   string         `json:"ledger_id"`
	LedgerName string         `json:"ledger_name"`
	Side       string         `json:"side"`
	Amount     pgtype.Numeric `json:"amount"`
}

func (q *Queries) CreateVoucherEntry(ctx context.Context, arg CreateVoucherEntryParams) error {
	_, err := q.db.Exec(ctx, createVoucherEntry,
		arg.VoucherID,
		arg.LineNo,
		arg.LedgerID,
		arg.LedgerName,
		arg.Side,
		arg.Amount,
	)
	return err
}

const getVoucherByID = `-- name: GetVoucherByID :one
SELECT id, type, number, date, narration, reference_type, reference_id, reversal_of, total_debit, total_credit, created_by, created_at FROM vouchers WHERE id = $1
`

func (q *Queries) GetVoucherByID(ctx context.Context, id string) (Voucher, error) {
	row := q.db.QueryRow(ctx, getVoucherByID, id)
	var i Voucher
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Number,
		&i.Date,
		&i.Narration,
		&i.ReferenceType,
		&i.ReferenceID,
		&i.ReversalOf,
		&i.TotalDebit,
		&i.TotalCredit,
		&i.CreatedBy,
		&i.CreatedAt,
	)
	return i, err
}

const getVoucherByIDForUpdate = `-- name: GetVoucherByIDForUpdate :one
SELECT id, type, number, date, narration, reference_type, reference_id, reversal_of, total_debit, total_credit, created_by, created_at FROM vouchers WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetVoucherByIDForUpdate(ctx context.Context, id string) (Voucher, error) {
	row := q.db.QueryRow(ctx, getVoucherByIDForUpdate, id)
	var i Voucher
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Number,
		&i.Date,
		&i.Narration,
		&i.ReferenceType,
		&i.ReferenceID,
		&i.ReversalOf,
		&i.TotalDebit,
		&i.TotalCredit,
		&i.CreatedBy,
		&i.CreatedAt,
	)
	return i, err
}

const listVoucherEntries = `-- name: ListVoucherEntries :many
SELECT voucher_id, line_no, ledger_id, ledger_name, side, amount FROM voucher_entries WHERE voucher_id = $1 ORDER BY line_no
`

func (q *Queries) ListVoucherEntries(ctx context.Context, voucherID string) ([]VoucherEntry, error) {
	rows, err := q.db.Query(ctx, listVoucherEntries, voucherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []VoucherEntry{}
	for rows.Next() {
		var i VoucherEntry
		if err := rows.Scan(
			&i.VoucherID,
			&i.LineNo,
			&i.LedgerID,
			&i.LedgerName,
			&i.Side,
			&i.Amount,
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

const voucherHasReversal = `-- name: VoucherHasReversal :one
SELECT EXISTS (SELECT 1 FROM vouchers WHERE reversal_of = $1)
`

func (q *Queries) VoucherHasReversal(ctx context.Context, reversalOf string) (bool, error) {
	row := q.db.QueryRow(ctx, voucherHasReversal, reversalOf)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listVouchers = `-- name: ListVouchers :many
SELECT id, type, number, date, narration, reference_type, reference_id, reversal_of, total_debit, total_credit, created_by, created_at FROM vouchers
WHERE ($1::text = '' OR type = $1)
  AND ($2::text = '' OR reference_type = $2)
  AND ($3::text = '' OR reference_id = $3)
  AND ($4::date IS NULL OR date >= $4)
  AND ($5::date IS NULL OR date <= $5)
ORDER BY date DESC, id DESC
LIMIT $6 OFFSET $7
`

type ListVouchersParams struct {
	Type          string      `json:"type"`
	ReferenceType string      `json:"reference_type"`
	ReferenceID   string      `json:"reference_id"`
	FromDate      pgtype.Date `json:"from_date"`
	ToDate        pgtype.Date `json:"to_date"`
	Limit         int32       `json:"limit"`
	Offset        int32       `json:"offset"`
}

func (q *Queries) ListVouchers(ctx context.Context, arg ListVouchersParams) ([]Voucher, error) {
	rows, err := q.db.Query(ctx, listVouchers,
		arg.Type,
		arg.ReferenceType,
		arg.ReferenceID,
		arg.FromDate,
		arg.ToDate,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Voucher{}
	for rows.Next() {
		var i Voucher
		if err := rows.Scan(
			&i.ID,
			&i.Type,
			&i.Number,
			&i.Date,
			&i.Narration,
			&i.ReferenceType,
			&i.ReferenceID,
			&i.ReversalOf,
			&i.TotalDebit,
			&i.TotalCredit,
			&i.CreatedBy,
			&i.CreatedAt,
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

const voucherTotals = `-- name: VoucherTotals :one
SELECT
    COALESCE(SUM(total_debit), 0)::numeric AS total_debit,
    COALESCE(SUM(total_credit), 0)::numeric AS total_credit,
    COUNT(*) AS voucher_count,
    COUNT(*) FILTER (WHERE abs(total_debit - total_credit) > 0.01) AS unbalanced_vouchers
FROM vouchers
`

type VoucherTotalsRow struct {
	TotalDebit         pgtype.Numeric `json:"total_debit"`
	TotalCredit        pgtype.Numeric `json:"total_credit"`
	VoucherCount       int64          `json:"voucher_count"`
	UnbalancedVouchers int64          `json:"unbalanced_vouchers"`
}

func (q *Queries) VoucherTotals(ctx context.Context) (VoucherTotalsRow, error) {
	row := q.db.QueryRow(ctx, voucherTotals)
	var i VoucherTotalsRow
	err := row.Scan(
		&i.TotalDebit,
		&i.TotalCredit,
		&i.VoucherCount,
		&i.UnbalancedVouchers,
	)
	return i, err
}
