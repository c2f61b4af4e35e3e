package integration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
	"github.com/dairycoop/dairyledger/tests/testutil"
)

func TestBankTransferLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	svc := testDB.NewServices()

	asOn := testutil.Date(2026, time.March, 31)

	// Two producers at center C1, one at C2.
	p1 := testDB.CreateProducer(ctx, "Anita", "C1", "BK1")
	p2 := testDB.CreateProducer(ctx, "Bhaskar", "C1", "BK1")
	p3 := testDB.CreateProducer(ctx, "Chitra", "C2", "BK1")

	testDB.CreatePayment(ctx, p1.ID, testutil.Date(2026, time.March, 15),
		decimal.RequireFromString("1234.50"), decimal.NewFromInt(100), decimal.Zero, domain.PaymentApproved)
	testDB.CreatePayment(ctx, p2.ID, testutil.Date(2026, time.March, 15),
		decimal.NewFromInt(500), decimal.Zero, decimal.Zero, domain.PaymentPending)
	testDB.CreatePayment(ctx, p3.ID, testutil.Date(2026, time.March, 15),
		decimal.NewFromInt(900), decimal.Zero, decimal.Zero, domain.PaymentApproved)
	// Outside the as-on window.
	testDB.CreatePayment(ctx, p1.ID, testutil.Date(2026, time.April, 2),
		decimal.NewFromInt(700), decimal.Zero, decimal.Zero, domain.PaymentApproved)

	criteria := domain.RetrieveCriteria{
		AsOnDate:      asOn,
		Basis:         domain.BasisAsOnDate,
		Filter:        domain.TransferFilter{CollectionCenterID: "C1"},
		RoundDownUnit: 10,
	}

	retrieved, err := svc.Transfers.RetrieveBalances(ctx, criteria)
	if err != nil {
		t.Fatalf("retrieve balances: %v", err)
	}
	details := retrieved.Draft.Details
	if len(details) != 2 {
		t.Fatalf("expected 2 producers at C1, got %d", len(details))
	}
	if details[0].ProducerID != p1.ID || !details[0].NetPayable.Equal(decimal.RequireFromString("1134.5")) {
		t.Fatalf("unexpected first detail: %+v", details[0])
	}
	if !details[0].TransferAmount.Equal(decimal.NewFromInt(1130)) {
		t.Fatalf("expected amount rounded down to 1130, got %s", details[0].TransferAmount)
	}

	// Hold back the second producer.
	details[1].Approved = false

	batch, err := svc.Transfers.ApplyTransfer(ctx, usecase.ApplyTransferInput{
		AsOnDate:      asOn,
		Basis:         criteria.Basis,
		Filter:        criteria.Filter,
		RoundDownUnit: criteria.RoundDownUnit,
		Remarks:       "March payout",
		CreatedBy:     "clerk",
		Details:       details,
	})
	if err != nil {
		t.Fatalf("apply transfer: %v", err)
	}

	if batch.Status != domain.BatchApplied {
		t.Fatalf("expected applied batch, got %s", batch.Status)
	}
	if !strings.HasPrefix(batch.TransferNumber, "DC2603") {
		t.Errorf("unexpected transfer number %s", batch.TransferNumber)
	}
	if batch.TotalApproved != 1 || !batch.TotalTransferAmount.Equal(decimal.NewFromInt(1130)) {
		t.Fatalf("unexpected totals: approved=%d amount=%s", batch.TotalApproved, batch.TotalTransferAmount)
	}
	if batch.VoucherID == nil {
		t.Fatal("expected batch voucher to be linked")
	}

	voucher, err := svc.Vouchers.GetVoucher(ctx, *batch.VoucherID)
	if err != nil {
		t.Fatalf("get batch voucher: %v", err)
	}
	if voucher.Type != domain.VoucherJournal || !voucher.TotalDebit.Equal(decimal.NewFromInt(1130)) {
		t.Fatalf("unexpected batch voucher: %+v", voucher)
	}
	if voucher.Reference.Type != domain.ReferenceBankTransfer || voucher.Reference.ID != batch.ID {
		t.Fatalf("voucher reference not set: %+v", voucher.Reference)
	}

	stored, err := svc.Transfers.GetTransfer(ctx, batch.ID)
	if err != nil {
		t.Fatalf("get transfer: %v", err)
	}
	if len(stored.Details) != 1 || stored.Details[0].Bank.AccountNumber != p1.Bank.AccountNumber {
		t.Fatalf("expected bank snapshot of approved producer, got %+v", stored.Details)
	}

	t.Run("complete then cancel is rejected", func(t *testing.T) {
		completed, err := svc.Transfers.CompleteTransfer(ctx, batch.ID)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}
		if completed.Status != domain.BatchCompleted || completed.CompletedAt == nil {
			t.Fatalf("unexpected completed batch: %+v", completed)
		}

		_, err = svc.Transfers.CancelTransfer(ctx, usecase.CancelTransferInput{BatchID: batch.ID, Reason: "too late"})
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("expected invalid state, got %v", err)
		}
	})

	t.Run("cancel reverses the voucher", func(t *testing.T) {
		second, err := svc.Transfers.ApplyTransfer(ctx, usecase.ApplyTransferInput{
			AsOnDate:      asOn,
			Basis:         criteria.Basis,
			RoundDownUnit: 100,
			Details: []domain.TransferDetail{
				domain.NewTransferDetail(p3, decimal.NewFromInt(900), 100),
			},
		})
		if err != nil {
			t.Fatalf("apply second batch: %v", err)
		}
		if second.TransferNumber == batch.TransferNumber {
			t.Fatalf("transfer numbers must be unique, both %s", batch.TransferNumber)
		}

		cancelled, err := svc.Transfers.CancelTransfer(ctx, usecase.CancelTransferInput{
			BatchID:     second.ID,
			Reason:      "wrong bank file",
			CancelledBy: "supervisor",
		})
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if cancelled.Status != domain.BatchCancelled || cancelled.ReversalVoucherID == nil {
			t.Fatalf("unexpected cancelled batch: %+v", cancelled)
		}
		for _, d := range cancelled.Details {
			if d.TransferStatus != domain.TransferCancelled {
				t.Errorf("detail %s not cancelled: %s", d.ProducerID, d.TransferStatus)
			}
		}

		report, err := svc.Ledgers.CheckConsistency(ctx)
		if err != nil {
			t.Fatalf("consistency: %v", err)
		}
		if !report.Consistent {
			t.Fatalf("books inconsistent after cancel: %+v", report)
		}
	})

	t.Run("list filters by status", func(t *testing.T) {
		applied, err := svc.Transfers.ListTransfers(ctx, domain.BatchFilter{Status: domain.BatchCancelled, Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(applied) != 1 {
			t.Fatalf("expected one cancelled batch, got %d", len(applied))
		}
	})
}

func TestBankTransferRejectsEmptyApproval(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	svc := testDB.NewServices()

	p := testDB.CreateProducer(ctx, "Devika", "C1", "BK2")
	detail := domain.NewTransferDetail(p, decimal.NewFromInt(5), 10)

	_, err := svc.Transfers.ApplyTransfer(ctx, usecase.ApplyTransferInput{
		AsOnDate:      testutil.Date(2026, time.March, 31),
		Basis:         domain.BasisAsOnDate,
		RoundDownUnit: 10,
		Details:       []domain.TransferDetail{detail},
	})
	if !errors.Is(err, domain.ErrNoApprovedTransfers) {
		t.Fatalf("expected ErrNoApprovedTransfers, got %v", err)
	}

	batches, err := svc.Transfers.ListTransfers(ctx, domain.BatchFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(batches) != 0 {
		t.Fatalf("expected nothing persisted, got %d batches", len(batches))
	}
}
