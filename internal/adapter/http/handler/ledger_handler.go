package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dairycoop/dairyledger/internal/adapter/http/dto"
	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CreateLedger(ctx context.Context, input usecase.CreateLedgerInput) (*domain.Ledger, error)
	GetLedger(ctx context.Context, id string) (*domain.Ledger, error)
	ListLedgers(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Ledger, error)
	ListPostings(ctx context.Context, input usecase.ListPostingsInput) ([]*domain.LedgerPosting, error)
	ReconcileLedger(ctx context.Context, ledgerID string) (*usecase.ReconciliationResult, error)
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles ledger HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Create creates a new ledger.
func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLedgerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, r, "invalid ledger", err)
		return
	}

	ledger, err := h.ledgerUC.CreateLedger(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create ledger", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LedgerFromDomain(ledger))
}

// Get retrieves a ledger by ID.
func (h *LedgerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.ledgerUC.GetLedger(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromDomain(ledger))
}

// List lists ledgers, filtered by status and classification.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ledgers, err := h.ledgerUC.ListLedgers(r.Context(), domain.LedgerFilter{
		Status:         domain.LedgerStatus(q.Get("status")),
		Classification: domain.Classification(q.Get("classification")),
		Limit:          parseIntQuery(r, "limit", 0),
		Offset:         parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list ledgers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgersFromDomain(ledgers))
}

// ListPostings lists the balance history of a ledger.
func (h *LedgerHandler) ListPostings(w http.ResponseWriter, r *http.Request) {
	postings, err := h.ledgerUC.ListPostings(r.Context(), usecase.ListPostingsInput{
		LedgerID: chi.URLParam(r, "id"),
		Limit:    parseIntQuery(r, "limit", 0),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list postings", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostingsFromDomain(postings))
}

// Reconcile replays a ledger's postings and compares them with its balance.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledgerUC.ReconcileLedger(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to reconcile ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}

// CheckConsistency checks if the ledger is consistent.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) && report != nil {
			writeJSON(w, http.StatusConflict, dto.ConsistencyFromReport(report))
			return
		}
		writeDomainError(w, r, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}
