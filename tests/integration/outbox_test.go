package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/eventpublisher"
	"github.com/dairycoop/dairyledger/internal/usecase"
	"github.com/dairycoop/dairyledger/tests/testutil"
)

func TestOutboxEventCreation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	svc := testDB.NewServices()

	cash, err := svc.Ledgers.CreateLedger(ctx, usecase.CreateLedgerInput{Name: "Cash", Classification: domain.ClassAssetLike})
	if err != nil {
		t.Fatalf("create cash: %v", err)
	}
	sales, err := svc.Ledgers.CreateLedger(ctx, usecase.CreateLedgerInput{Name: "Milk Sales", Classification: domain.ClassLiabilityLike})
	if err != nil {
		t.Fatalf("create sales: %v", err)
	}

	voucher, err := svc.Vouchers.CreateVoucher(ctx, usecase.CreateVoucherInput{
		Type:      domain.VoucherReceipt,
		Date:      testutil.Date(2026, time.March, 3),
		Reference: domain.Reference{Type: "milk_sale", ID: "INV-17"},
		Entries: []domain.Entry{
			domain.DebitEntry(cash.ID, decimal.NewFromInt(75)),
			domain.CreditEntry(sales.ID, decimal.NewFromInt(75)),
		},
	})
	if err != nil {
		t.Fatalf("create voucher: %v", err)
	}

	events, err := svc.Outbox.GetByAggregate(ctx, domain.AggregateTypeVoucher, voucher.ID, 10, 0)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one voucher event, got %d", len(events))
	}

	event := events[0]
	if event.EventType != domain.EventTypeVoucherPosted || event.Published {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Payload["number"] != voucher.Number {
		t.Errorf("payload number mismatch: %v", event.Payload["number"])
	}
	if event.Payload["reference_id"] != "INV-17" {
		t.Errorf("payload reference mismatch: %v", event.Payload["reference_id"])
	}

	ledgerEvents, err := svc.Outbox.GetByAggregate(ctx, domain.AggregateTypeLedger, cash.ID, 10, 0)
	if err != nil {
		t.Fatalf("get ledger events: %v", err)
	}
	if len(ledgerEvents) != 1 || ledgerEvents[0].EventType != domain.EventTypeLedgerCreated {
		t.Fatalf("expected ledger.created event, got %+v", ledgerEvents)
	}
}

func TestEventPublisherDrainsOutbox(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	svc := testDB.NewServices()

	for _, name := range []string{"Cash", "Bank"} {
		if _, err := svc.Ledgers.CreateLedger(ctx, usecase.CreateLedgerInput{Name: name, Classification: domain.ClassAssetLike}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	sink := &recordingPublisher{}
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: svc.Outbox,
		Publisher:  sink,
		Logger:     zerolog.Nop(),
		BatchSize:  10,
		Interval:   20 * time.Millisecond,
	})

	publisherCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	go publisher.Start(publisherCtx)

	var left int
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		unpublished, err := svc.Outbox.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("get unpublished: %v", err)
		}
		left = len(unpublished)
		if left == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if left != 0 {
		t.Fatalf("expected outbox to be drained, %d left", left)
	}
	if got := len(sink.Published()); got != 2 {
		t.Fatalf("expected 2 events published, got %d", got)
	}
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*domain.OutboxEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) Published() []*domain.OutboxEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*domain.OutboxEvent{}, p.published...)
}
