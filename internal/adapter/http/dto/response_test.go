package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

func TestLedgerFromDomain_ShowsMagnitudeAndSide(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	ledger, err := domain.NewLedger("led-1", "Producer Payable", domain.ClassLiabilityLike, decimal.NewFromInt(300), "", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ledger.Post(decimal.NewFromInt(500), now)

	resp := LedgerFromDomain(ledger)

	if resp.Side != string(ledger.CurrentSide) {
		t.Fatalf("expected side %s, got %s", ledger.CurrentSide, resp.Side)
	}
	if resp.Balance.IsNegative() {
		t.Fatalf("expected unsigned balance, got %s", resp.Balance)
	}
	if !resp.Balance.Equal(ledger.Magnitude()) {
		t.Fatalf("expected balance %s, got %s", ledger.Magnitude(), resp.Balance)
	}
}

func TestVoucherFromDomain_TwoColumnEntries(t *testing.T) {
	original := "v-0"
	v := &domain.Voucher{
		ID:         "v-1",
		Type:       domain.VoucherJournal,
		Number:     "JV-2403-0002",
		Date:       time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		ReversalOf: &original,
		Reference:  domain.Reference{Type: domain.ReferenceReversal, ID: original},
		Entries: []domain.Entry{
			domain.DebitEntry("a", decimal.NewFromInt(7)),
			domain.CreditEntry("b", decimal.NewFromInt(7)),
		},
	}

	resp := VoucherFromDomain(v)

	if resp.Date != "2024-03-05" || *resp.ReversalOf != "v-0" || resp.ReferenceType != domain.ReferenceReversal {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !resp.Entries[0].Debit.Equal(decimal.NewFromInt(7)) || !resp.Entries[0].Credit.IsZero() {
		t.Fatalf("unexpected debit line %+v", resp.Entries[0])
	}
	if !resp.Entries[1].Credit.Equal(decimal.NewFromInt(7)) || !resp.Entries[1].Debit.IsZero() {
		t.Fatalf("unexpected credit line %+v", resp.Entries[1])
	}
}

func TestBatchFromDomain_OmitsEmptyOptionalFields(t *testing.T) {
	b := &domain.BankTransferBatch{
		ID:        "bt-1",
		Basis:     domain.BasisAsOnDate,
		Status:    domain.BatchApplied,
		AsOnDate:  time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		CreatedBy: "clerk",
	}

	data, err := json.Marshal(BatchFromDomain(b))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"voucher_id", "cancelled_at", "details", "apply_date"} {
		if key == "apply_date" {
			if raw[key] != "" {
				t.Fatalf("expected empty apply_date, got %v", raw[key])
			}
			continue
		}
		if _, ok := raw[key]; ok {
			t.Fatalf("expected %s to be omitted, got %v", key, raw[key])
		}
	}
	if raw["as_on_date"] != "2024-03-31" {
		t.Fatalf("unexpected as_on_date %v", raw["as_on_date"])
	}
}

func TestRetrieveBalancesFromResult(t *testing.T) {
	criteria := domain.RetrieveCriteria{
		Basis:         domain.BasisAsOnDate,
		AsOnDate:      time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		RoundDownUnit: 10,
	}
	details := []domain.TransferDetail{
		domain.NewTransferDetail(domain.Producer{ID: "P1"}, decimal.RequireFromString("1234.50"), 10),
		domain.NewTransferDetail(domain.Producer{ID: "P2"}, decimal.NewFromInt(-30), 10),
	}
	draft := domain.NewDraftBatch(criteria, details)

	resp := RetrieveBalancesFromResult(&usecase.RetrieveBalancesResult{Draft: draft, Summary: domain.Summarize(details)})

	if len(resp.Details) != 2 || resp.Summary.Count != 2 || resp.Summary.NegativeBalanceCount != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !resp.Summary.TotalTransferAmount.Equal(decimal.NewFromInt(1230)) {
		t.Fatalf("expected total transfer 1230, got %s", resp.Summary.TotalTransferAmount)
	}
}
