// Package inventory is the single point of contact with the remote inventory
// REST service. Every call goes through one retry and error-shaping policy.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkravets/pantry-backend/internal/config"
	"github.com/mkravets/pantry-backend/internal/domain"
	"github.com/mkravets/pantry-backend/internal/metrics"
)

const basePath = "/inventory"

// Client is an explicitly constructed inventory client carrying its own
// retry and timeout configuration. There is no shared package-level state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int // additional attempts after the first
	retryDelay time.Duration
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a Client from the backend configuration.
func NewClient(cfg config.BackendConfig, logger *slog.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retries:    cfg.RetryAttempts,
		retryDelay: cfg.RetryDelay,
		log:        logger.With("adapter", "inventory"),
		metrics:    m,
	}
}

// List returns all inventory records in the order the server stores them.
// No client-side reordering is performed.
func (c *Client) List(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	if err := c.do(ctx, "list items", http.MethodGet, basePath, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create submits a new record without an id and returns the persisted record
// including the server-assigned id.
func (c *Client) Create(ctx context.Context, patch domain.ItemPatch) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	if err := c.do(ctx, "create item", http.MethodPost, basePath, patch, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update submits only the fields to change and returns the updated record.
// A nonexistent id surfaces as whatever the server answers, unchanged.
func (c *Client) Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	path := basePath + "/" + url.PathEscape(id)
	if err := c.do(ctx, "update item", http.MethodPut, path, patch, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	path := basePath + "/" + url.PathEscape(id)
	return c.do(ctx, "delete item", http.MethodDelete, path, nil, nil)
}

// GetByBarcode fetches a single record by barcode.
func (c *Client) GetByBarcode(ctx context.Context, barcode string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	path := basePath + "/barcode/" + url.PathEscape(barcode)
	if err := c.do(ctx, "lookup by barcode", http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Ping checks that the remote service answers at all. It is a single
// attempt with no retry; probes want the current truth, not a hopeful one.
func (c *Client) Ping(ctx context.Context) error {
	if rerr := c.attempt(ctx, "ping", http.MethodGet, c.baseURL+basePath, nil, nil); rerr != nil {
		rerr.Attempts = 1
		return rerr
	}
	return nil
}

// do runs one logical operation: up to 1+retries attempts with a fixed delay
// between them, retried uniformly regardless of failure cause. After the
// budget is exhausted the last failure surfaces as a single RequestError.
// Each attempt is logged; logging has no effect on control flow.
func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	reqURL := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("inventory: encode body: %w", err)
		}
	}

	attempts := c.retries + 1
	var lastErr *domain.RequestError

	for attempt := 1; attempt <= attempts; attempt++ {
		c.metrics.BackendAttempts.WithLabelValues(op).Inc()
		c.log.DebugContext(ctx, "backend request",
			slog.String("op", op),
			slog.String("method", method),
			slog.String("url", reqURL),
			slog.Int("attempt", attempt),
		)

		lastErr = c.attempt(ctx, op, method, reqURL, payload, out)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts || ctx.Err() != nil {
			break
		}

		c.metrics.BackendRetries.WithLabelValues(op).Inc()
		c.log.WarnContext(ctx, "backend retry",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.String("reason", lastErr.Err.Error()),
		)
		time.Sleep(c.retryDelay)
	}

	lastErr.Attempts = attempts
	c.metrics.BackendFailures.WithLabelValues(op, kindLabel(lastErr.Kind)).Inc()
	c.log.ErrorContext(ctx, "backend request failed",
		slog.String("op", op),
		slog.Int("attempts", attempts),
		slog.String("error", lastErr.Error()),
	)
	return lastErr
}

// attempt performs a single network attempt.
func (c *Client) attempt(ctx context.Context, op, method, reqURL string, payload []byte, out any) *domain.RequestError {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return &domain.RequestError{Kind: domain.RequestUnreachable, Op: op, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.RequestError{Kind: classifyNetErr(err), Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "backend response",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(detail))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &domain.RequestError{
			Kind:   domain.RequestStatus,
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RequestError{Kind: domain.RequestUnreachable, Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// classifyNetErr separates timeouts from pure connectivity failures so the
// surfaced message can report them distinctly.
func classifyNetErr(err error) domain.RequestErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.RequestTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return domain.RequestTimeout
	}
	return domain.RequestUnreachable
}

func kindLabel(k domain.RequestErrorKind) string {
	switch k {
	case domain.RequestTimeout:
		return "timeout"
	case domain.RequestUnreachable:
		return "unreachable"
	default:
		return "status"
	}
}
