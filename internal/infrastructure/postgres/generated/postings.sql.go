package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLedgerPosting = `-- name: CreateLedgerPosting :exec
INSERT INTO ledger_postings (id, voucher_id, ledger_id, line_no, net_change, balance_before, balance_after, side_after, ledger_version, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

type CreateLedgerPostingParams struct {
	ID            string             `json:"id"`
	VoucherID     string             `json:"voucher_id"`
	LedgerID      string             `json:"ledger_id"`
	LineNo        int32              `json:"line_no"`
	NetChange     pgtype.Numeric     `json:"net_change"`
	BalanceBefore pgtype.Numeric     `json:"balance_before"`
	BalanceAfter  pgtype.Numeric     `json:"balance_after"`
	SideAfter     string             `json:"side_after"`
	LedgerVersion int64              `json:"ledger_version"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateLedgerPosting(ctx context.Context, arg CreateLedgerPostingParams) error {
	_, err := q.db.Exec(ctx, createLedgerPosting,
		arg.ID,
		arg.VoucherID,
		arg.LedgerID,
		arg.LineNo,
		arg.NetChange,
		arg.BalanceBefore,
		arg.BalanceAfter,
		arg.SideAfter,
		arg.LedgerVersion,
		arg.CreatedAt,
	)
	return err
}

const listPostingsByLedger = `-- name: ListPostingsByLedger :many
SELECT id, voucher_id, ledger_id, line_no, net_change, balance_before, balance_after, side_after, ledger_version, created_at FROM ledger_postings
WHERE ledger_id = $1
ORDER BY ledger_version
LIMIT $2 OFFSET $3
`

type ListPostingsByLedgerParams struct {
	LedgerID string `json:"ledger_id"`
	Limit    int32  `json:"limit"`
	Offset   int32  `json:"offset"`
}

func (q *Queries) ListPostingsByLedger(ctx context.Context, arg ListPostingsByLedgerParams) ([]LedgerPosting, error) {
	rows, err := q.db.Query(ctx, listPostingsByLedger, arg.LedgerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []LedgerPosting{}
	for rows.Next() {
		var i LedgerPosting
		if err := rows.Scan(
			&i.ID,
			&i.VoucherID,
			&i.LedgerID,
			&i.LineNo,
			&i.NetChange,
			&i.BalanceBefore,
			&i.BalanceAfter,
			&i.SideAfter,
			&i.LedgerVersion,
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

const listNetChangesByLedger = `-- name: ListNetChangesByLedger :many
SELECT net_change FROM ledger_postings WHERE ledger_id = $1 ORDER BY ledger_version
`

func (q *Queries) ListNetChangesByLedger(ctx context.Context, ledgerID string) ([]pgtype.Numeric, error) {
	rows, err := q.db.Query(ctx, listNetChangesByLedger, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []pgtype.Numeric{}
	for rows.Next() {
		var net_change pgtype.Numeric
		if err := rows.Scan(&net_change); err != nil {
			return nil, err
		}
		items = append(items, net_change)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumPostingNetChange = `-- name: SumPostingNetChange :one
SELECT COALESCE(SUM(net_change), 0)::numeric AS total FROM ledger_postings
`

func (q *Queries) SumPostingNetChange(ctx context.Context) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumPostingNetChange)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}
