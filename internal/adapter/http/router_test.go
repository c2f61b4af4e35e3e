package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dairycoop/dairyledger/internal/adapter/http/handler"
	apimiddleware "github.com/dairycoop/dairyledger/internal/adapter/http/middleware"
	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/metrics"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"name":"Cash","classification":"asset"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledgers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_ActorHeaderReachesUseCase(t *testing.T) {
	vouchers := &stubVoucherService{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.VoucherHandler = handler.NewVoucherHandler(vouchers)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vouchers/v-1/reverse", strings.NewReader(`{}`))
	req.Header.Set(apimiddleware.ActorHeader, "accountant-2")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if vouchers.actor != "accountant-2" {
		t.Fatalf("expected actor from header, got %q", vouchers.actor)
	}
}

func TestNewRouter_MetricsEndpointExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.MetricsGatherer = reg
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/ledgers/led-1", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `dairyledger_http_requests_total{method="GET",path="/api/v1/ledgers/{id}",status="200"} 1`) {
		t.Fatalf("expected request series in metrics output, got:\n%s", rec.Body.String())
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/ledgers/",
		"GET /api/v1/ledgers/",
		"GET /api/v1/ledgers/{id}",
		"GET /api/v1/ledgers/{id}/postings",
		"GET /api/v1/ledgers/{id}/reconciliation",
		"GET /api/v1/ledger/consistency",
		"POST /api/v1/vouchers/",
		"GET /api/v1/vouchers/",
		"GET /api/v1/vouchers/{id}",
		"POST /api/v1/vouchers/{id}/reverse",
		"POST /api/v1/bank-transfers/retrieve",
		"POST /api/v1/bank-transfers/",
		"GET /api/v1/bank-transfers/{id}/events",
		"GET /api/v1/bank-transfers/",
		"GET /api/v1/bank-transfers/{id}",
		"POST /api/v1/bank-transfers/{id}/cancel",
		"POST /api/v1/bank-transfers/{id}/complete",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		HealthHandler:       handler.NewHealthHandler(nil, nil),
		LedgerHandler:       handler.NewLedgerHandler(stubLedgerService{}),
		VoucherHandler:      handler.NewVoucherHandler(&stubVoucherService{}),
		BankTransferHandler: handler.NewBankTransferHandler(stubBankTransferService{}),
		Logger:              zerolog.Nop(),
		MetricsGatherer:     prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubLedgerService struct{}

func (stubLedgerService) CreateLedger(ctx context.Context, input usecase.CreateLedgerInput) (*domain.Ledger, error) {
	return &domain.Ledger{ID: "led", Name: input.Name, Classification: input.Classification}, nil
}

func (stubLedgerService) GetLedger(ctx context.Context, id string) (*domain.Ledger, error) {
	return &domain.Ledger{ID: id}, nil
}

func (stubLedgerService) ListLedgers(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Ledger, error) {
	return []*domain.Ledger{}, nil
}

func (stubLedgerService) ListPostings(ctx context.Context, input usecase.ListPostingsInput) ([]*domain.LedgerPosting, error) {
	return []*domain.LedgerPosting{}, nil
}

func (stubLedgerService) ReconcileLedger(ctx context.Context, id string) (*usecase.ReconciliationResult, error) {
	return &usecase.ReconciliationResult{LedgerID: id, IsReconciled: true}, nil
}

func (stubLedgerService) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return &usecase.ConsistencyReport{Consistent: true}, nil
}

type stubVoucherService struct {
	actor string
}

func (s *stubVoucherService) CreateVoucher(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error) {
	return &domain.Voucher{ID: "v"}, nil
}

func (s *stubVoucherService) ReverseVoucher(ctx context.Context, input usecase.ReverseVoucherInput) (*domain.Voucher, error) {
	s.actor, _ = domain.ActorFromContext(ctx)
	original := input.VoucherID
	return &domain.Voucher{ID: "v-rev", ReversalOf: &original}, nil
}

func (s *stubVoucherService) GetVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	return &domain.Voucher{ID: id}, nil
}

func (s *stubVoucherService) ListVouchers(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	return []*domain.Voucher{}, nil
}

type stubBankTransferService struct{}

func (stubBankTransferService) RetrieveBalances(ctx context.Context, criteria domain.RetrieveCriteria) (*usecase.RetrieveBalancesResult, error) {
	return &usecase.RetrieveBalancesResult{Draft: domain.NewDraftBatch(criteria, nil)}, nil
}

func (stubBankTransferService) ApplyTransfer(ctx context.Context, input usecase.ApplyTransferInput) (*domain.BankTransferBatch, error) {
	return &domain.BankTransferBatch{ID: "bt"}, nil
}

func (stubBankTransferService) CancelTransfer(ctx context.Context, input usecase.CancelTransferInput) (*domain.BankTransferBatch, error) {
	return &domain.BankTransferBatch{ID: input.BatchID}, nil
}

func (stubBankTransferService) CompleteTransfer(ctx context.Context, batchID string) (*domain.BankTransferBatch, error) {
	return &domain.BankTransferBatch{ID: batchID}, nil
}

func (stubBankTransferService) GetTransfer(ctx context.Context, id string) (*domain.BankTransferBatch, error) {
	return &domain.BankTransferBatch{ID: id}, nil
}

func (stubBankTransferService) ListTransfers(ctx context.Context, filter domain.BatchFilter) ([]*domain.BankTransferBatch, error) {
	return []*domain.BankTransferBatch{}, nil
}

func (stubBankTransferService) ListTransferEvents(ctx context.Context, batchID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	return []*domain.OutboxEvent{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
