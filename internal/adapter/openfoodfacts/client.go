// Package openfoodfacts enriches a barcode with a product photo URL from the
// public Open Food Facts catalog. The lookup is strictly best-effort: every
// failure mode degrades to "no image", it never raises to its caller.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/mkravets/pantry-backend/internal/config"
	"github.com/mkravets/pantry-backend/internal/metrics"
)

// Client performs single-shot image lookups. No retry is performed; a
// circuit breaker skips the outbound call entirely while the catalog keeps
// failing, which still reads as "not found" to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a Client from the catalog configuration.
func NewClient(cfg config.CatalogConfig, logger *slog.Logger, m *metrics.Metrics) *Client {
	log := logger.With("adapter", "openfoodfacts")

	settings := gobreaker.Settings{
		Name:     "openfoodfacts",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.TotalFailures > counts.Requests/2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("catalog breaker state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		log:        log,
		metrics:    m,
	}
}

// productResponse is the slice of the catalog payload this client reads.
type productResponse struct {
	Status  int `json:"status"`
	Product struct {
		ImageFrontURL string `json:"image_front_url"`
		ImageURL      string `json:"image_url"`
	} `json:"product"`
}

// LookupImage returns the product photo URL for a barcode, preferring the
// front image over the generic one, or "" when the product is unknown.
func (c *Client) LookupImage(ctx context.Context, barcode string) string {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, barcode)
	})
	if err != nil {
		c.metrics.CatalogLookups.WithLabelValues("error").Inc()
		c.log.DebugContext(ctx, "image lookup failed",
			slog.String("barcode", barcode),
			slog.String("error", err.Error()),
		)
		return ""
	}

	imageURL := result.(string)
	if imageURL == "" {
		c.metrics.CatalogLookups.WithLabelValues("not_found").Inc()
		return ""
	}

	c.metrics.CatalogLookups.WithLabelValues("found").Inc()
	return imageURL
}

func (c *Client) fetch(ctx context.Context, barcode string) (string, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var pr productResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return "", err
	}

	if pr.Status != 1 {
		return "", nil
	}
	if pr.Product.ImageFrontURL != "" {
		return pr.Product.ImageFrontURL, nil
	}
	return pr.Product.ImageURL, nil
}
