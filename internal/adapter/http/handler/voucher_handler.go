package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dairycoop/dairyledger/internal/adapter/http/dto"
	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

// VoucherService defines the behavior needed by VoucherHandler.
type VoucherService interface {
	CreateVoucher(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error)
	ReverseVoucher(ctx context.Context, input usecase.ReverseVoucherInput) (*domain.Voucher, error)
	GetVoucher(ctx context.Context, id string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error)
}

// VoucherHandler handles voucher HTTP requests.
type VoucherHandler struct {
	voucherUC VoucherService
}

// NewVoucherHandler creates a new VoucherHandler.
func NewVoucherHandler(voucherUC VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherUC: voucherUC}
}

// Create posts a new voucher.
func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVoucherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, r, "invalid voucher", err)
		return
	}

	voucher, err := h.voucherUC.CreateVoucher(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create voucher", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.VoucherFromDomain(voucher))
}

// Get retrieves a voucher with its entries.
func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	voucher, err := h.voucherUC.GetVoucher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get voucher", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(voucher))
}

// List lists vouchers, newest first.
func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := dto.ParseDate("from", q.Get("from"))
	if err != nil {
		writeDomainError(w, r, "invalid filter", err)
		return
	}
	to, err := dto.ParseDate("to", q.Get("to"))
	if err != nil {
		writeDomainError(w, r, "invalid filter", err)
		return
	}

	filter := domain.VoucherFilter{
		Type:          domain.VoucherType(q.Get("type")),
		ReferenceType: q.Get("reference_type"),
		ReferenceID:   q.Get("reference_id"),
		Limit:         parseIntQuery(r, "limit", 0),
		Offset:        parseIntQuery(r, "offset", 0),
	}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}

	vouchers, err := h.voucherUC.ListVouchers(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to list vouchers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VouchersFromDomain(vouchers))
}

// Reverse posts the compensating voucher of an existing one.
func (h *VoucherHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req dto.ReverseVoucherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "invalid reversal", err)
		return
	}

	reversal, err := h.voucherUC.ReverseVoucher(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to reverse voucher", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.VoucherFromDomain(reversal))
}
