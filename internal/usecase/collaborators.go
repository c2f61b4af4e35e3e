package usecase

//go:generate mockgen -source=collaborators.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
	"time"

	"github.com/dairycoop/dairyledger/internal/domain"
)

// ProducerDirectory supplies active producers and their bank details. It is
// owned by the procurement side of the cooperative; this service only reads it.
type ProducerDirectory interface {
	ListActive(ctx context.Context, filter domain.TransferFilter) ([]domain.Producer, error)
}

// PaymentAggregateProvider supplies per-producer payment figures.
type PaymentAggregateProvider interface {
	SumPayments(ctx context.Context, query domain.PaymentQuery) (domain.PaymentTotals, error)
	// LastApproved returns the latest approved payment on or before upTo, or nil.
	LastApproved(ctx context.Context, producerID string, upTo time.Time) (*domain.PaymentRecord, error)
}
