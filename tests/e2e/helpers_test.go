//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mkravets/pantry-backend/internal/adapter/inventory"
	"github.com/mkravets/pantry-backend/internal/adapter/openfoodfacts"
	"github.com/mkravets/pantry-backend/internal/config"
	"github.com/mkravets/pantry-backend/internal/metrics"
	"github.com/mkravets/pantry-backend/internal/scanner"
	"github.com/mkravets/pantry-backend/internal/scanner/zxing"
	"github.com/mkravets/pantry-backend/internal/service/item"
	"github.com/mkravets/pantry-backend/internal/transport/middleware"
	"github.com/mkravets/pantry-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// Fake remote inventory store.
// ---------------------------------------------------------------------------

// fakeStore is an in-memory stand-in for the remote inventory REST service.
type fakeStore struct {
	mu     sync.Mutex
	nextID int
	items  []map[string]any
}

func (s *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /inventory", s.list)
	mux.HandleFunc("POST /inventory", s.create)
	mux.HandleFunc("PUT /inventory/{id}", s.update)
	mux.HandleFunc("DELETE /inventory/{id}", s.delete)
	mux.HandleFunc("GET /inventory/barcode/{barcode}", s.byBarcode)
	return mux
}

func (s *fakeStore) list(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeStoreJSON(w, http.StatusOK, s.items)
}

func (s *fakeStore) create(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	s.nextID++
	body["id"] = fmt.Sprintf("srv-%d", s.nextID)
	s.items = append(s.items, body)
	writeStoreJSON(w, http.StatusCreated, body)
}

func (s *fakeStore) update(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	for _, it := range s.items {
		if it["id"] == id {
			for k, v := range body {
				if v == nil {
					delete(it, k)
					continue
				}
				it[k] = v
			}
			writeStoreJSON(w, http.StatusOK, it)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (s *fakeStore) delete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("id")
	for i, it := range s.items {
		if it["id"] == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (s *fakeStore) byBarcode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	barcode := r.PathValue("barcode")
	for _, it := range s.items {
		if it["barcode"] == barcode {
			writeStoreJSON(w, http.StatusOK, it)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func writeStoreJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// ---------------------------------------------------------------------------
// Test server wiring.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Store  *fakeStore
}

// setupTestServer wires the whole application surface against a fake remote
// store and a fake product catalog, without the real network.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store := &fakeStore{}
	storeSrv := httptest.NewServer(store.handler())
	t.Cleanup(storeSrv.Close)

	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "4006381333931") {
			writeStoreJSON(w, http.StatusOK, map[string]any{
				"status":  1,
				"product": map[string]any{"image_front_url": "https://img.example/front.jpg"},
			})
			return
		}
		writeStoreJSON(w, http.StatusOK, map[string]any{"status": 0})
	}))
	t.Cleanup(catalogSrv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewForTesting()

	backend := inventory.NewClient(config.BackendConfig{
		BaseURL:       storeSrv.URL,
		Timeout:       5 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}, logger, m)

	catalog := openfoodfacts.NewClient(config.CatalogConfig{
		BaseURL: catalogSrv.URL,
		Timeout: 5 * time.Second,
	}, logger, m)

	items := item.NewService(logger, backend, catalog, config.DashboardConfig{ExpiryWindowDays: 7})
	scanCfg := config.ScannerConfig{FrameRate: 10, BoxSize: 250}
	scanAdapter := scanner.New(zxing.NewDecoder(scanCfg.BoxSize), scanCfg, logger, m)

	itemHandler := rest.NewItemHandler(items, logger)
	scanHandler := rest.NewScanHandler(scanAdapter, logger)
	healthHandler := rest.NewHealthHandler(backend, "e2e")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items", itemHandler.List)
	mux.HandleFunc("POST /api/items", itemHandler.Create)
	mux.HandleFunc("GET /api/items/prefill", itemHandler.Prefill)
	mux.HandleFunc("GET /api/items/{id}", itemHandler.Get)
	mux.HandleFunc("PUT /api/items/{id}", itemHandler.Update)
	mux.HandleFunc("DELETE /api/items/{id}", itemHandler.Delete)
	mux.HandleFunc("GET /api/dashboard", itemHandler.Dashboard)
	mux.HandleFunc("GET /api/store", itemHandler.Storefront)
	mux.HandleFunc("GET /api/scan", scanHandler.Serve)
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
	)

	srv := httptest.NewServer(chain(mux))
	t.Cleanup(srv.Close)

	return &testServer{URL: srv.URL, Client: srv.Client(), Store: store}
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

func (ts *testServer) doJSON(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if resp.StatusCode == http.StatusNoContent {
		return resp, nil
	}

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (ts *testServer) getList(t *testing.T, path string) (*http.Response, []map[string]any) {
	t.Helper()

	resp, err := ts.Client.Get(ts.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}
