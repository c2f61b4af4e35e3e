package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listActiveProducers = `-- name: ListActiveProducers :many
SELECT id, name, collection_center_id, bank_id, bank_name, branch, account_number, account_holder, ifsc, status FROM producers
WHERE status = 'active'
  AND ($1::text = '' OR collection_center_id = $1)
  AND ($2::text = '' OR bank_id = $2)
ORDER BY id
`

type ListActiveProducersParams struct {
	CollectionCenterID string `json:"collection_center_id"`
	BankID             string `json:"bank_id"`
}

func (q *Queries) ListActiveProducers(ctx context.Context, arg ListActiveProducersParams) ([]Producer, error) {
	rows, err := q.db.Query(ctx, listActiveProducers, arg.CollectionCenterID, arg.BankID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Producer{}
	for rows.Next() {
		var i Producer
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.CollectionCenterID,
			&i.BankID,
			&i.BankName,
			&i.Branch,
			&i.AccountNumber,
			&i.AccountHolder,
			&i.Ifsc,
			&i.Status,
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

const sumProducerPayments = `-- name: SumProducerPayments :one
SELECT
    COALESCE(SUM(milk_amount), 0)::numeric AS milk_amount,
    COALESCE(SUM(deductions), 0)::numeric AS deductions,
    COALESCE(SUM(paid_amount), 0)::numeric AS paid_amount
FROM producer_payments
WHERE producer_id = $1
  AND ($2::date IS NULL OR payment_date >= $2)
  AND payment_date <= $3
  AND status = ANY($4::text[])
`

type SumProducerPaymentsParams struct {
	ProducerID string      `json:"producer_id"`
	FromDate   pgtype.Date `json:"from_date"`
	ToDate     pgtype.Date `json:"to_date"`
	Statuses   []string    `json:"statuses"`
}

type SumProducerPaymentsRow struct {
	MilkAmount pgtype.Numeric `json:"milk_amount"`
	Deductions pgtype.Numeric `json:"deductions"`
	PaidAmount pgtype.Numeric `json:"paid_amount"`
}

func (q *Queries) SumProducerPayments(ctx context.Context, arg SumProducerPaymentsParams) (SumProducerPaymentsRow, error) {
	row := q.db.QueryRow(ctx, sumProducerPayments,
		arg.ProducerID,
		arg.FromDate,
		arg.ToDate,
		arg.Statuses,
	)
	var i SumProducerPaymentsRow
	err := row.Scan(&i.MilkAmount, &i.Deductions, &i.PaidAmount)
	return i, err
}

const lastApprovedPayment = `-- name: LastApprovedPayment :one
SELECT id, producer_id, payment_date, milk_amount, deductions, net_payable, paid_amount, status FROM producer_payments
WHERE producer_id = $1 AND status = 'approved' AND payment_date <= $2
ORDER BY payment_date DESC, id DESC
LIMIT 1
`

type LastApprovedPaymentParams struct {
	ProducerID string      `json:"producer_id"`
	UpTo       pgtype.Date `json:"up_to"`
}

func (q *Queries) LastApprovedPayment(ctx context.Context, arg LastApprovedPaymentParams) (ProducerPayment, error) {
	row := q.db.QueryRow(ctx, lastApprovedPayment, arg.ProducerID, arg.UpTo)
	var i ProducerPayment
	err := row.Scan(
		&i.ID,
		&i.ProducerID,
		&i.PaymentDate,
		&i.MilkAmount,
		&i.Deductions,
		&i.NetPayable,
		&i.PaidAmount,
		&i.Status,
	)
	return i, err
}
