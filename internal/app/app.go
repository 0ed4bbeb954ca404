package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

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

// Run is the application entry point. It loads configuration, initializes
// the logger, wires the adapters and services, and serves HTTP until the
// context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Adapters.
	backend := inventory.NewClient(cfg.Backend, logger, m)
	catalog := openfoodfacts.NewClient(cfg.Catalog, logger, m)

	// Services.
	items := item.NewService(logger, backend, catalog, cfg.Dashboard)
	scanAdapter := scanner.New(zxing.NewDecoder(cfg.Scanner.BoxSize), cfg.Scanner, logger, m)

	// Handlers.
	itemHandler := rest.NewItemHandler(items, logger)
	scanHandler := rest.NewScanHandler(scanAdapter, logger)
	healthHandler := rest.NewHealthHandler(backend, BuildVersion())

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
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	}

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Cleanup)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.RateLimit.MaxPerMinute))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      middleware.Chain(mws...)(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if active := scanAdapter.Active(); active != nil {
		active.Stop()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("stopped cleanly")
	return nil
}
