package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkravets/pantry-backend/internal/domain"
	"github.com/mkravets/pantry-backend/internal/service/item"
)

// itemService defines the minimal interface needed by ItemHandler.
type itemService interface {
	List(ctx context.Context) ([]domain.InventoryItem, error)
	Get(ctx context.Context, id string) (*domain.InventoryItem, error)
	CreateFromForm(ctx context.Context, values item.FormValues) (*domain.InventoryItem, error)
	UpdateFromForm(ctx context.Context, id string, values item.FormValues) (*domain.InventoryItem, error)
	Delete(ctx context.Context, id string) error
	Prefill(ctx context.Context, barcode string) (*item.PrefillResult, error)
	Dashboard(ctx context.Context) (*item.Dashboard, error)
	Storefront(ctx context.Context) ([]item.StoreItem, error)
}

// ItemHandler serves inventory REST endpoints.
type ItemHandler struct {
	svc itemService
	log *slog.Logger
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(svc itemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{svc: svc, log: logger.With("handler", "items")}
}

// List handles GET /api/items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	it, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// Create handles POST /api/items. The body is the raw item form; blank
// fields are simply not submitted upstream.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var values item.FormValues
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.CreateFromForm(r.Context(), values)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/items/{id}. The body is the full edited form;
// only the fields that actually changed go upstream.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	var values item.FormValues
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.UpdateFromForm(r.Context(), id, values)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Prefill handles GET /api/items/prefill?barcode=...; it seeds the item
// form after a scan.
func (h *ItemHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	barcode := r.URL.Query().Get("barcode")
	if barcode == "" {
		writeError(w, http.StatusBadRequest, "missing barcode")
		return
	}

	result, err := h.svc.Prefill(r.Context(), barcode)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Dashboard handles GET /api/dashboard.
func (h *ItemHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Storefront handles GET /api/store.
func (h *ItemHandler) Storefront(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Storefront(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *domain.RequestError
	switch {
	case errors.Is(err, domain.ErrNoChanges):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "item not found")
	case errors.As(err, &reqErr):
		// Surface the normalized message; the user can tell a timeout
		// from an unreachable store.
		writeError(w, http.StatusBadGateway, reqErr.Error())
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
