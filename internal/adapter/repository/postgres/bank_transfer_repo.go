package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/postgres/generated"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

const defaultBatchPageSize = 50

// BankTransferRepository implements usecase.BankTransferRepository.
type BankTransferRepository struct {
	queries *generated.Queries
}

// NewBankTransferRepository creates a new BankTransferRepository.
func NewBankTransferRepository(db generated.DBTX) *BankTransferRepository {
	return &BankTransferRepository{queries: generated.New(db)}
}

// Create inserts the batch and its detail lines.
func (r *BankTransferRepository) Create(ctx context.Context, tx usecase.Transaction, b *domain.BankTransferBatch) error {
	q := txQueries(tx)

	filter, err := json.Marshal(b.Filter)
	if err != nil {
		return fmt.Errorf("marshal transfer filter: %w", err)
	}

	err = q.CreateBankTransferBatch(ctx, generated.CreateBankTransferBatchParams{
		ID:                  b.ID,
		TransferNumber:      b.TransferNumber,
		Basis:               string(b.Basis),
		Status:              string(b.Status),
		AsOnDate:            timeToPgDate(b.AsOnDate),
		ApplyDate:           timeToPgDate(b.ApplyDate),
		Filter:              filter,
		RoundDownUnit:       b.RoundDownUnit,
		TotalNetPayable:     decimalToNumeric(b.TotalNetPayable),
		TotalTransferAmount: decimalToNumeric(b.TotalTransferAmount),
		TotalApproved:       int32(b.TotalApproved),
		TotalProducers:      int32(b.TotalProducers),
		Remarks:             b.Remarks,
		VoucherID:           stringPtrToPgText(b.VoucherID),
		CreatedBy:           b.CreatedBy,
		CreatedAt:           timeToPgTimestamptz(b.CreatedAt),
		UpdatedAt:           timeToPgTimestamptz(b.UpdatedAt),
	})
	if err != nil {
		return mapUniqueViolation(err)
	}

	for _, d := range b.Details {
		bank, err := json.Marshal(d.Bank)
		if err != nil {
			return fmt.Errorf("marshal bank details: %w", err)
		}

		err = q.CreateBankTransferDetail(ctx, generated.CreateBankTransferDetailParams{
			BatchID:        b.ID,
			ProducerID:     d.ProducerID,
			ProducerName:   d.ProducerName,
			Bank:           bank,
			NetPayable:     decimalToNumeric(d.NetPayable),
			TransferAmount: decimalToNumeric(d.TransferAmount),
			Approved:       d.Approved,
			TransferStatus: string(d.TransferStatus),
			TransferredAt:  timePtrToPgTimestamptz(d.TransferredAt),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Update writes the batch status fields and every detail's transfer status.
func (r *BankTransferRepository) Update(ctx context.Context, tx usecase.Transaction, b *domain.BankTransferBatch) error {
	q := txQueries(tx)

	affected, err := q.UpdateBankTransferBatch(ctx, generated.UpdateBankTransferBatchParams{
		ID:                b.ID,
		Status:            string(b.Status),
		VoucherID:         stringPtrToPgText(b.VoucherID),
		ReversalVoucherID: stringPtrToPgText(b.ReversalVoucherID),
		CancelledBy:       stringPtrToPgText(b.CancelledBy),
		UpdatedAt:         timeToPgTimestamptz(b.UpdatedAt),
		CompletedAt:       timePtrToPgTimestamptz(b.CompletedAt),
		CancelledAt:       timePtrToPgTimestamptz(b.CancelledAt),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrBatchNotFound
	}

	for _, d := range b.Details {
		err := q.UpdateBankTransferDetail(ctx, generated.UpdateBankTransferDetailParams{
			BatchID:        b.ID,
			ProducerID:     d.ProducerID,
			TransferStatus: string(d.TransferStatus),
			TransferredAt:  timePtrToPgTimestamptz(d.TransferredAt),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a batch with its details.
func (r *BankTransferRepository) GetByID(ctx context.Context, id string) (*domain.BankTransferBatch, error) {
	row, err := r.queries.GetBankTransferBatch(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, err
	}

	return withDetails(ctx, r.queries, row)
}

// GetByIDForUpdate locks the batch row and returns it with its details.
func (r *BankTransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.BankTransferBatch, error) {
	q := txQueries(tx)

	row, err := q.GetBankTransferBatchForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, err
	}

	return withDetails(ctx, q, row)
}

// List lists batches newest first.
func (r *BankTransferRepository) List(ctx context.Context, filter domain.BatchFilter) ([]*domain.BankTransferBatch, error) {
	limit, offset := limitOffset(filter.Limit, filter.Offset, defaultBatchPageSize)

	rows, err := r.queries.ListBankTransferBatches(ctx, generated.ListBankTransferBatchesParams{
		Status: string(filter.Status),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	batches := make([]*domain.BankTransferBatch, 0, len(rows))
	for _, row := range rows {
		b, err := withDetails(ctx, r.queries, row)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}

	return batches, nil
}

func withDetails(ctx context.Context, q *generated.Queries, row generated.BankTransferBatch) (*domain.BankTransferBatch, error) {
	b, err := rowToBatch(row)
	if err != nil {
		return nil, err
	}

	details, err := q.ListBankTransferDetails(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	b.Details = make([]domain.TransferDetail, len(details))
	for i, d := range details {
		var bank domain.BankDetails
		if len(d.Bank) > 0 {
			if err := json.Unmarshal(d.Bank, &bank); err != nil {
				return nil, fmt.Errorf("decode bank details of %s: %w", d.ProducerID, err)
			}
		}
		b.Details[i] = domain.TransferDetail{
			ProducerID:     d.ProducerID,
			ProducerName:   d.ProducerName,
			Bank:           bank,
			NetPayable:     numericToDecimal(d.NetPayable),
			TransferAmount: numericToDecimal(d.TransferAmount),
			Approved:       d.Approved,
			TransferStatus: domain.TransferStatus(d.TransferStatus),
			TransferredAt:  pgTimestamptzToPtr(d.TransferredAt),
		}
	}

	return b, nil
}

func rowToBatch(row generated.BankTransferBatch) (*domain.BankTransferBatch, error) {
	var filter domain.TransferFilter
	if len(row.Filter) > 0 {
		if err := json.Unmarshal(row.Filter, &filter); err != nil {
			return nil, fmt.Errorf("decode transfer filter: %w", err)
		}
	}

	return &domain.BankTransferBatch{
		ID:                  row.ID,
		TransferNumber:      row.TransferNumber,
		Basis:               domain.TransferBasis(row.Basis),
		Status:              domain.BatchStatus(row.Status),
		AsOnDate:            pgDateToTime(row.AsOnDate),
		ApplyDate:           pgDateToTime(row.ApplyDate),
		Filter:              filter,
		RoundDownUnit:       row.RoundDownUnit,
		TotalNetPayable:     numericToDecimal(row.TotalNetPayable),
		TotalTransferAmount: numericToDecimal(row.TotalTransferAmount),
		TotalApproved:       int(row.TotalApproved),
		TotalProducers:      int(row.TotalProducers),
		Remarks:             row.Remarks,
		VoucherID:           pgTextToPtr(row.VoucherID),
		ReversalVoucherID:   pgTextToPtr(row.ReversalVoucherID),
		CreatedBy:           row.CreatedBy,
		CancelledBy:         pgTextToPtr(row.CancelledBy),
		CreatedAt:           row.CreatedAt.Time,
		UpdatedAt:           row.UpdatedAt.Time,
		CompletedAt:         pgTimestamptzToPtr(row.CompletedAt),
		CancelledAt:         pgTimestamptzToPtr(row.CancelledAt),
	}, nil
}
