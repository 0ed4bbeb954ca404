package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkravets/pantry-backend/internal/domain"
	"github.com/mkravets/pantry-backend/internal/service/item"
)

type itemServiceMock struct {
	listFn      func(ctx context.Context) ([]domain.InventoryItem, error)
	getFn       func(ctx context.Context, id string) (*domain.InventoryItem, error)
	createFn    func(ctx context.Context, values item.FormValues) (*domain.InventoryItem, error)
	updateFn    func(ctx context.Context, id string, values item.FormValues) (*domain.InventoryItem, error)
	deleteFn    func(ctx context.Context, id string) error
	prefillFn   func(ctx context.Context, barcode string) (*item.PrefillResult, error)
	dashboardFn func(ctx context.Context) (*item.Dashboard, error)
	storeFn     func(ctx context.Context) ([]item.StoreItem, error)
}

func (m *itemServiceMock) List(ctx context.Context) ([]domain.InventoryItem, error) {
	return m.listFn(ctx)
}

func (m *itemServiceMock) Get(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return m.getFn(ctx, id)
}

func (m *itemServiceMock) CreateFromForm(ctx context.Context, values item.FormValues) (*domain.InventoryItem, error) {
	return m.createFn(ctx, values)
}

func (m *itemServiceMock) UpdateFromForm(ctx context.Context, id string, values item.FormValues) (*domain.InventoryItem, error) {
	return m.updateFn(ctx, id, values)
}

func (m *itemServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *itemServiceMock) Prefill(ctx context.Context, barcode string) (*item.PrefillResult, error) {
	return m.prefillFn(ctx, barcode)
}

func (m *itemServiceMock) Dashboard(ctx context.Context) (*item.Dashboard, error) {
	return m.dashboardFn(ctx)
}

func (m *itemServiceMock) Storefront(ctx context.Context) ([]item.StoreItem, error) {
	return m.storeFn(ctx)
}

func newItemHandler(svc itemService) *ItemHandler {
	return NewItemHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func strPtr(s string) *string { return &s }

func TestItems_List(t *testing.T) {
	t.Parallel()

	svc := &itemServiceMock{
		listFn: func(context.Context) ([]domain.InventoryItem, error) {
			return []domain.InventoryItem{{ID: "a1", Name: strPtr("Milk")}}, nil
		},
	}
	h := newItemHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var items []domain.InventoryItem
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a1" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestItems_Create(t *testing.T) {
	t.Parallel()

	var gotValues item.FormValues
	svc := &itemServiceMock{
		createFn: func(_ context.Context, values item.FormValues) (*domain.InventoryItem, error) {
			gotValues = values
			return &domain.InventoryItem{ID: "srv-1", Name: strPtr("Beans")}, nil
		},
	}
	h := newItemHandler(svc)

	body := `{"name":"Beans","quantity":"3"}`
	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if gotValues.Name != "Beans" || gotValues.Quantity != "3" {
		t.Errorf("unexpected form values: %+v", gotValues)
	}
}

func TestItems_Create_BadBody(t *testing.T) {
	t.Parallel()

	h := newItemHandler(&itemServiceMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestItems_Update_NoChanges(t *testing.T) {
	t.Parallel()

	svc := &itemServiceMock{
		updateFn: func(context.Context, string, item.FormValues) (*domain.InventoryItem, error) {
			return nil, domain.ErrNoChanges
		},
	}
	h := newItemHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/items/a1", strings.NewReader(`{"name":"Milk"}`))
	req.SetPathValue("id", "a1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "no changes to save" {
		t.Errorf("expected the no-changes message, got %q", resp["error"])
	}
}

func TestItems_Update_NotFound(t *testing.T) {
	t.Parallel()

	svc := &itemServiceMock{
		updateFn: func(context.Context, string, item.FormValues) (*domain.InventoryItem, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := newItemHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/items/ghost", strings.NewReader(`{"name":"x"}`))
	req.SetPathValue("id", "ghost")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestItems_Update_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &itemServiceMock{
		updateFn: func(context.Context, string, item.FormValues) (*domain.InventoryItem, error) {
			return nil, domain.NewValidationError("price", "must be a non-negative number")
		},
	}
	h := newItemHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/items/a1", strings.NewReader(`{"price":"abc"}`))
	req.SetPathValue("id", "a1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestItems_BackendFailureIs502WithUserMessage(t *testing.T) {
	t.Parallel()

	svc := &itemServiceMock{
		listFn: func(context.Context) ([]domain.InventoryItem, error) {
			return nil, &domain.RequestError{
				Kind: domain.RequestTimeout, Op: "list items", Attempts: 4,
				Err: errors.New("context deadline exceeded"),
			}
		},
	}
	h := newItemHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(resp["error"], "timed out") {
		t.Errorf("expected a timeout message, got %q", resp["error"])
	}
}

func TestItems_Delete(t *testing.T) {
	t.Parallel()

	deleted := ""
	svc := &itemServiceMock{
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	h := newItemHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/items/a1", nil)
	req.SetPathValue("id", "a1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if deleted != "a1" {
		t.Errorf("deleted id = %q", deleted)
	}
}

func TestItems_Prefill(t *testing.T) {
	t.Parallel()

	svc := &itemServiceMock{
		prefillFn: func(_ context.Context, barcode string) (*item.PrefillResult, error) {
			return &item.PrefillResult{Barcode: barcode, PhotoURL: "https://img/p.jpg"}, nil
		},
	}
	h := newItemHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/items/prefill?barcode=4006381333931", nil)
	rec := httptest.NewRecorder()
	h.Prefill(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp item.PrefillResult
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Barcode != "4006381333931" || resp.PhotoURL != "https://img/p.jpg" {
		t.Errorf("unexpected prefill: %+v", resp)
	}
}

func TestItems_Prefill_MissingBarcode(t *testing.T) {
	t.Parallel()

	h := newItemHandler(&itemServiceMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/items/prefill", nil)
	rec := httptest.NewRecorder()
	h.Prefill(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestItems_Dashboard(t *testing.T) {
	t.Parallel()

	svc := &itemServiceMock{
		dashboardFn: func(context.Context) (*item.Dashboard, error) {
			return &item.Dashboard{TotalItems: 3, OutOfStock: 1}, nil
		},
	}
	h := newItemHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp item.Dashboard
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalItems != 3 || resp.OutOfStock != 1 {
		t.Errorf("unexpected dashboard: %+v", resp)
	}
}
