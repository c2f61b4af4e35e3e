package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/postgres/generated"
)

// ProducerDirectory implements usecase.ProducerDirectory on the producers table.
type ProducerDirectory struct {
	queries *generated.Queries
}

// NewProducerDirectory creates a new ProducerDirectory.
func NewProducerDirectory(db generated.DBTX) *ProducerDirectory {
	return &ProducerDirectory{queries: generated.New(db)}
}

// ListActive lists active producers matching filter, ordered by ID.
func (d *ProducerDirectory) ListActive(ctx context.Context, filter domain.TransferFilter) ([]domain.Producer, error) {
	rows, err := d.queries.ListActiveProducers(ctx, generated.ListActiveProducersParams{
		CollectionCenterID: filter.CollectionCenterID,
		BankID:             filter.BankID,
	})
	if err != nil {
		return nil, err
	}

	producers := make([]domain.Producer, len(rows))
	for i, row := range rows {
		producers[i] = domain.Producer{
			ID:                 row.ID,
			Name:               row.Name,
			CollectionCenterID: row.CollectionCenterID,
			Status:             domain.ProducerStatus(row.Status),
			Bank: domain.BankDetails{
				BankID:        row.BankID,
				BankName:      row.BankName,
				Branch:        row.Branch,
				AccountNumber: row.AccountNumber,
				AccountHolder: row.AccountHolder,
				IFSC:          row.Ifsc,
			},
		}
	}

	return producers, nil
}

// PaymentAggregateProvider implements usecase.PaymentAggregateProvider on the
// producer_payments table.
type PaymentAggregateProvider struct {
	queries *generated.Queries
}

// NewPaymentAggregateProvider creates a new PaymentAggregateProvider.
func NewPaymentAggregateProvider(db generated.DBTX) *PaymentAggregateProvider {
	return &PaymentAggregateProvider{queries: generated.New(db)}
}

// SumPayments sums the payment columns selected by query.
func (p *PaymentAggregateProvider) SumPayments(ctx context.Context, query domain.PaymentQuery) (domain.PaymentTotals, error) {
	statuses := make([]string, len(query.Statuses))
	for i, s := range query.Statuses {
		statuses[i] = string(s)
	}

	row, err := p.queries.SumProducerPayments(ctx, generated.SumProducerPaymentsParams{
		ProducerID: query.ProducerID,
		FromDate:   timePtrToPgDate(query.From),
		ToDate:     timeToPgDate(query.To),
		Statuses:   statuses,
	})
	if err != nil {
		return domain.PaymentTotals{}, err
	}

	return domain.PaymentTotals{
		MilkAmount: numericToDecimal(row.MilkAmount),
		Deductions: numericToDecimal(row.Deductions),
		PaidAmount: numericToDecimal(row.PaidAmount),
	}, nil
}

// LastApproved returns the latest approved payment on or before upTo, or nil.
func (p *PaymentAggregateProvider) LastApproved(ctx context.Context, producerID string, upTo time.Time) (*domain.PaymentRecord, error) {
	row, err := p.queries.LastApprovedPayment(ctx, generated.LastApprovedPaymentParams{
		ProducerID: producerID,
		UpTo:       timeToPgDate(upTo),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.PaymentRecord{
		ProducerID:  row.ProducerID,
		PaymentDate: pgDateToTime(row.PaymentDate),
		Status:      domain.PaymentStatus(row.Status),
		MilkAmount:  numericToDecimal(row.MilkAmount),
		Deductions:  numericToDecimal(row.Deductions),
		NetPayable:  numericToDecimal(row.NetPayable),
		PaidAmount:  numericToDecimal(row.PaidAmount),
	}, nil
}
