package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createBankTransferBatch = `-- name: CreateBankTransferBatch :exec
INSERT INTO bank_transfer_batches (
    id, transfer_number, basis, status, as_on_date, apply_date, filter, round_down_unit,
    total_net_payable, total_transfer_amount, total_approved, total_producers, remarks,
    voucher_id, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`

type CreateBankTransferBatchParams struct {
	ID                  string             `json:"id"`
	TransferNumber      string             `json:"transfer_number"`
	Basis               string             `json:"basis"`
	Status              string             `json:"status"`
	AsOnDate            pgtype.Date        `json:"as_on_date"`
	ApplyDate           pgtype.Date        `json:"apply_date"`
	Filter              []byte             `json:"filter"`
	RoundDownUnit       int64              `json:"round_down_unit"`
	TotalNetPayable     pgtype.Numeric     `json:"total_net_payable"`
	TotalTransferAmount pgtype.Numeric     `json:"total_transfer_amount"`
	TotalApproved       int32              `json:"total_approved"`
	TotalProducers      int32              `json:"total_producers"`
	Remarks             string             `json:"remarks"`
	VoucherID           pgtype.Text        `json:"voucher_id"`
	CreatedBy           string             `json:"created_by"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateBankTransferBatch(ctx context.Context, arg CreateBankTransferBatchParams) error {
	_, err := q.db.Exec(ctx, createBankTransferBatch,
		arg.ID,
		arg.TransferNumber,
		arg.Basis,
		arg.Status,
		arg.AsOnDate,
		arg.ApplyDate,
		arg.Filter,
		arg.RoundDownUnit,
		arg.TotalNetPayable,
		arg.TotalTransferAmount,
		arg.TotalApproved,
		arg.TotalProducers,
		arg.Remarks,
		arg.VoucherID,
		arg.CreatedBy,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const createBankTransferDetail = `-- name: CreateBankTransferDetail :exec
INSERT INTO bank_transfer_details (batch_id, producer_id, producer_name, bank, net_payable, transfer_amount, approved, transfer_status, transferred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateBankTransferDetailParams struct {
	BatchID        string             `json:"batch_id"`
	ProducerID     string             `json:"producer_id"`
	ProducerName   string             `json:"producer_name"`
	Bank           []byte             `json:"bank"`
	NetPayable     pgtype.Numeric     `json:"net_payable"`
	TransferAmount pgtype.Numeric     `json:"transfer_amount"`
	Approved       bool               `json:"approved"`
	TransferStatus string             `json:"transfer_status"`
	TransferredAt  pgtype.Timestamptz `json:"transferred_at"`
}

func (q *Queries) CreateBankTransferDetail(ctx context.Context, arg CreateBankTransferDetailParams) error {
	_, err := q.db.Exec(ctx, createBankTransferDetail,
		arg.BatchID,
		arg.ProducerID,
		arg.ProducerName,
		arg.Bank,
		arg.NetPayable,
		arg.TransferAmount,
		arg.Approved,
		arg.TransferStatus,
		arg.TransferredAt,
	)
	return err
}

const updateBankTransferBatch = `-- name: UpdateBankTransferBatch :execrows
UPDATE bank_transfer_batches
SET status = $2,
    voucher_id = $3,
    reversal_voucher_id = $4,
    cancelled_by = $5,
    updated_at = $6,
    completed_at = $7,
    cancelled_at = $8
WHERE id = $1
`

type UpdateBankTransferBatchParams struct {
	ID                string             `json:"id"`
	Status            string             `json:"status"`
	VoucherID         pgtype.Text        `json:"voucher_id"`
	ReversalVoucherID pgtype.Text        `json:"reversal_voucher_id"`
	CancelledBy       pgtype.Text        `json:"cancelled_by"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
	CompletedAt       pgtype.Timestamptz `json:"completed_at"`
	CancelledAt       pgtype.Timestamptz `json:"cancelled_at"`
}

func (q *Queries) UpdateBankTransferBatch(ctx context.Context, arg UpdateBankTransferBatchParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateBankTransferBatch,
		arg.ID,
		arg.Status,
		arg.VoucherID,
		arg.ReversalVoucherID,
		arg.CancelledBy,
		arg.UpdatedAt,
		arg.CompletedAt,
		arg.CancelledAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateBankTransferDetail = `-- name: UpdateBankTransferDetail :exec
UPDATE bank_transfer_details
SET transfer_status = $3, transferred_at = $4
WHERE batch_id = $1 AND producer_id = $2
`

type UpdateBankTransferDetailParams struct {
	BatchID        string             `json:"batch_id"`
	ProducerID     string             `json:"producer_id"`
	TransferStatus string             `json:"transfer_status"`
	TransferredAt  pgtype.Timestamptz `json:"transferred_at"`
}

func (q *Queries) UpdateBankTransferDetail(ctx context.Context, arg UpdateBankTransferDetailParams) error {
	_, err := q.db.Exec(ctx, updateBankTransferDetail,
		arg.BatchID,
		arg.ProducerID,
		arg.TransferStatus,
		arg.TransferredAt,
	)
	return err
}

const getBankTransferBatch = `-- name: GetBankTransferBatch :one
SELECT id, transfer_number, basis, status, as_on_date, apply_date, filter, round_down_unit, total_net_payable, total_transfer_amount, total_approved, total_producers, remarks, voucher_id, reversal_voucher_id, created_by, cancelled_by, created_at, updated_at, completed_at, cancelled_at FROM bank_transfer_batches WHERE id = $1
`

func (q *Queries) GetBankTransferBatch(ctx context.Context, id string) (BankTransferBatch, error) {
	row := q.db.QueryRow(ctx, getBankTransferBatch, id)
	return scanBankTransferBatch(row)
}

const getBankTransferBatchForUpdate = `-- name: GetBankTransferBatchForUpdate :one
SELECT id, transfer_number, basis, status, as_on_date, apply_date, filter, round_down_unit, total_net_payable, total_transfer_amount, total_approved, total_producers, remarks, voucher_id, reversal_voucher_id, created_by, cancelled_by, created_at, updated_at, completed_at, cancelled_at FROM bank_transfer_batches WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetBankTransferBatchForUpdate(ctx context.Context, id string) (BankTransferBatch, error) {
	row := q.db.QueryRow(ctx, getBankTransferBatchForUpdate, id)
	return scanBankTransferBatch(row)
}

const listBankTransferBatches = `-- name: ListBankTransferBatches :many
SELECT id, transfer_number, basis, status, as_on_date, apply_date, filter, round_down_unit, total_net_payable, total_transfer_amount, total_approved, total_producers, remarks, voucher_id, reversal_voucher_id, created_by, cancelled_by, created_at, updated_at, completed_at, cancelled_at FROM bank_transfer_batches
WHERE ($1::text = '' OR status = $1)
ORDER BY id DESC
LIMIT $2 OFFSET $3
`

type ListBankTransferBatchesParams struct {
	Status string `json:"status"`
	Limit  int32  `json:"limit"`
	Offset int32  `json:"offset"`
}

func (q *Queries) ListBankTransferBatches(ctx context.Context, arg ListBankTransferBatchesParams) ([]BankTransferBatch, error) {
	rows, err := q.db.Query(ctx, listBankTransferBatches, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []BankTransferBatch{}
	for rows.Next() {
		i, err := scanBankTransferBatch(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listBankTransferDetails = `-- name: ListBankTransferDetails :many
SELECT batch_id, producer_id, producer_name, bank, net_payable, transfer_amount, approved, transfer_status, transferred_at FROM bank_transfer_details
WHERE batch_id = $1
ORDER BY producer_id
`

func (q *Queries) ListBankTransferDetails(ctx context.Context, batchID string) ([]BankTransferDetail, error) {
	rows, err := q.db.Query(ctx, listBankTransferDetails, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []BankTransferDetail{}
	for rows.Next() {
		var i BankTransferDetail
		if err := rows.Scan(
			&i.BatchID,
			&i.ProducerID,
			&i.ProducerName,
			&i.Bank,
			&i.NetPayable,
			&i.TransferAmount,
			&i.Approved,
			&i.TransferStatus,
			&i.TransferredAt,
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBankTransferBatch(row rowScanner) (BankTransferBatch, error) {
	var i BankTransferBatch
	err := row.Scan(
		&i.ID,
		&i.TransferNumber,
		&i.Basis,
		&i.Status,
		&i.AsOnDate,
		&i.ApplyDate,
		&i.Filter,
		&i.RoundDownUnit,
		&i.TotalNetPayable,
		&i.TotalTransferAmount,
		&i.TotalApproved,
		&i.TotalProducers,
		&i.Remarks,
		&i.VoucherID,
		&i.ReversalVoucherID,
		&i.CreatedBy,
		&i.CancelledBy,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.CompletedAt,
		&i.CancelledAt,
	)
	return i, err
}
