package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dairycoop/dairyledger/internal/adapter/http/dto"
	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

// BankTransferService defines the behavior needed by BankTransferHandler.
type BankTransferService interface {
	RetrieveBalances(ctx context.Context, criteria domain.RetrieveCriteria) (*usecase.RetrieveBalancesResult, error)
	ApplyTransfer(ctx context.Context, input usecase.ApplyTransferInput) (*domain.BankTransferBatch, error)
	CancelTransfer(ctx context.Context, input usecase.CancelTransferInput) (*domain.BankTransferBatch, error)
	CompleteTransfer(ctx context.Context, batchID string) (*domain.BankTransferBatch, error)
	GetTransfer(ctx context.Context, id string) (*domain.BankTransferBatch, error)
	ListTransfers(ctx context.Context, filter domain.BatchFilter) ([]*domain.BankTransferBatch, error)
	ListTransferEvents(ctx context.Context, batchID string, limit, offset int) ([]*domain.OutboxEvent, error)
}

// BankTransferHandler handles bank transfer batch HTTP requests.
type BankTransferHandler struct {
	transferUC BankTransferService
}

// NewBankTransferHandler creates a new BankTransferHandler.
func NewBankTransferHandler(transferUC BankTransferService) *BankTransferHandler {
	return &BankTransferHandler{transferUC: transferUC}
}

// Retrieve computes the draft list of producer balances. Nothing is stored.
func (h *BankTransferHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req dto.RetrieveBalancesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	criteria, err := req.ToCriteria()
	if err != nil {
		writeDomainError(w, r, "invalid criteria", err)
		return
	}

	result, err := h.transferUC.RetrieveBalances(r.Context(), criteria)
	if err != nil {
		writeDomainError(w, r, "failed to retrieve balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RetrieveBalancesFromResult(result))
}

// Apply persists the approved lines and posts the batch voucher.
func (h *BankTransferHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, r, "invalid transfer", err)
		return
	}

	batch, err := h.transferUC.ApplyTransfer(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to apply transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BatchFromDomain(batch))
}

// Cancel reverses an applied batch.
func (h *BankTransferHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "invalid cancellation", err)
		return
	}

	batch, err := h.transferUC.CancelTransfer(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to cancel transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchFromDomain(batch))
}

// Complete marks an applied batch as transferred.
func (h *BankTransferHandler) Complete(w http.ResponseWriter, r *http.Request) {
	batch, err := h.transferUC.CompleteTransfer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to complete transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchFromDomain(batch))
}

// Get retrieves a batch with its details.
func (h *BankTransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	batch, err := h.transferUC.GetTransfer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchFromDomain(batch))
}

// List lists batches, newest first.
func (h *BankTransferHandler) List(w http.ResponseWriter, r *http.Request) {
	batches, err := h.transferUC.ListTransfers(r.Context(), domain.BatchFilter{
		Status: domain.BatchStatus(r.URL.Query().Get("status")),
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list transfers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchesFromDomain(batches))
}

// Events lists the lifecycle events of a batch.
func (h *BankTransferHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.transferUC.ListTransferEvents(r.Context(), chi.URLParam(r, "id"),
		parseIntQuery(r, "limit", 0), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, r, "failed to list transfer events", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EventsFromDomain(events))
}
