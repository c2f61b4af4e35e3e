package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/adapter/http/dto"
	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

type voucherServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error)
	reverseFn func(ctx context.Context, input usecase.ReverseVoucherInput) (*domain.Voucher, error)
	getFn     func(ctx context.Context, id string) (*domain.Voucher, error)
	listFn    func(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error)
}

func (s *voucherServiceStub) CreateVoucher(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error) {
	return s.createFn(ctx, input)
}

func (s *voucherServiceStub) ReverseVoucher(ctx context.Context, input usecase.ReverseVoucherInput) (*domain.Voucher, error) {
	return s.reverseFn(ctx, input)
}

func (s *voucherServiceStub) GetVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	return s.getFn(ctx, id)
}

func (s *voucherServiceStub) ListVouchers(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	return s.listFn(ctx, filter)
}

func sampleVoucher(id string) *domain.Voucher {
	amount := decimal.NewFromInt(100)
	return &domain.Voucher{
		ID:          id,
		Type:        domain.VoucherReceipt,
		Number:      "RV-2403-0001",
		Date:        testNow,
		Entries:     []domain.Entry{domain.DebitEntry("cash", amount), domain.CreditEntry("sales", amount)},
		TotalDebit:  amount,
		TotalCredit: amount,
		CreatedBy:   "system",
		CreatedAt:   testNow,
	}
}

func TestVoucherHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateVoucherInput
	h := NewVoucherHandler(&voucherServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error) {
			captured = input
			return sampleVoucher("v-1"), nil
		},
	})

	body := `{"type":"receipt","date":"2024-03-15","narration":"milk sale",
		"entries":[{"ledger_id":"cash","debit":"100"},{"ledger_id":"sales","credit":"100"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vouchers", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Type != domain.VoucherReceipt || len(captured.Entries) != 2 {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.Entries[0].Side != domain.EntryDebit || captured.Entries[1].Side != domain.EntryCredit {
		t.Fatalf("expected debit then credit, got %+v", captured.Entries)
	}
	if !captured.Date.Equal(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %s", captured.Date)
	}

	var resp dto.VoucherResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Number != "RV-2403-0001" || resp.Date != "2024-03-15" || len(resp.Entries) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !resp.Entries[0].Debit.Equal(decimal.NewFromInt(100)) || !resp.Entries[0].Credit.IsZero() {
		t.Fatalf("expected two-column debit line, got %+v", resp.Entries[0])
	}
}

func TestVoucherHandler_Create_Unbalanced(t *testing.T) {
	h := NewVoucherHandler(&voucherServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error) {
			return nil, domain.ErrUnbalancedEntries
		},
	})

	body := `{"type":"journal","date":"2024-03-15",
		"entries":[{"ledger_id":"a","debit":"100"},{"ledger_id":"b","credit":"90"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vouchers", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVoucherHandler_Create_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"type":`},
		{"unknown type", `{"type":"contra","date":"2024-03-15","entries":[{"ledger_id":"a","debit":"1"},{"ledger_id":"b","credit":"1"}]}`},
		{"bad date", `{"type":"journal","date":"15/03/2024","entries":[{"ledger_id":"a","debit":"1"},{"ledger_id":"b","credit":"1"}]}`},
		{"single entry", `{"type":"journal","date":"2024-03-15","entries":[{"ledger_id":"a","debit":"1"}]}`},
		{"both columns", `{"type":"journal","date":"2024-03-15","entries":[{"ledger_id":"a","debit":"1","credit":"1"},{"ledger_id":"b","credit":"1"}]}`},
		{"bad amount", `{"type":"journal","date":"2024-03-15","entries":[{"ledger_id":"a","debit":"ten"},{"ledger_id":"b","credit":"1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewVoucherHandler(&voucherServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error) {
					t.Fatal("CreateVoucher should not be called for invalid payload")
					return nil, nil
				},
			})

			rec := httptest.NewRecorder()
			h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/vouchers", bytes.NewBufferString(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestVoucherHandler_List_ParsesFilter(t *testing.T) {
	var captured domain.VoucherFilter
	h := NewVoucherHandler(&voucherServiceStub{
		listFn: func(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
			captured = filter
			return []*domain.Voucher{sampleVoucher("v-1")}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vouchers?type=journal&from=2024-03-01&reference_type=bank_transfer&reference_id=bt-1", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Type != domain.VoucherJournal || captured.ReferenceID != "bt-1" || captured.From == nil || captured.To != nil {
		t.Fatalf("unexpected filter %+v", captured)
	}
}

func TestVoucherHandler_List_BadDate(t *testing.T) {
	h := NewVoucherHandler(&voucherServiceStub{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/vouchers?to=yesterday", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVoucherHandler_Reverse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		expected int
	}{
		{"reversed", `{"narration":"entered twice"}`, nil, http.StatusCreated},
		{"empty body", ``, nil, http.StatusCreated},
		{"already reversed", `{}`, domain.ErrVoucherAlreadyReversed, http.StatusConflict},
		{"missing voucher", `{}`, domain.ErrVoucherNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewVoucherHandler(&voucherServiceStub{
				reverseFn: func(ctx context.Context, input usecase.ReverseVoucherInput) (*domain.Voucher, error) {
					if input.VoucherID != "v-1" {
						t.Fatalf("expected voucher id from URL, got %q", input.VoucherID)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					return sampleVoucher("v-2"), nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/vouchers/v-1/reverse", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			h.Reverse(rec, withURLParam(req, "id", "v-1"))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
		})
	}
}
