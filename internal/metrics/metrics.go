// Package metrics defines the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles all collectors so they can be injected explicitly instead
// of living in package-level state.
type Metrics struct {
	BackendAttempts  *prometheus.CounterVec
	BackendRetries   *prometheus.CounterVec
	BackendFailures  *prometheus.CounterVec
	CatalogLookups   *prometheus.CounterVec
	ScanSessions     prometheus.Counter
	ScanDecodes      prometheus.Counter
	ScanFrameMisses  prometheus.Counter
	ScanInitFailures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BackendAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backend_request_attempts_total",
			Help: "Network attempts against the inventory service, including retries.",
		}, []string{"op"}),
		BackendRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backend_request_retries_total",
			Help: "Retries triggered by failed attempts against the inventory service.",
		}, []string{"op"}),
		BackendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backend_request_failures_total",
			Help: "Operations that failed after the retry budget was exhausted.",
		}, []string{"op", "kind"}),
		CatalogLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_image_lookups_total",
			Help: "Product image lookups against the public catalog.",
		}, []string{"outcome"}),
		ScanSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scan_sessions_started_total",
			Help: "Barcode scan sessions started.",
		}),
		ScanDecodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scan_decodes_total",
			Help: "Frames that produced a decoded barcode.",
		}),
		ScanFrameMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scan_frame_misses_total",
			Help: "Frames with no detectable code; these do not stop the session.",
		}),
		ScanInitFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scan_init_failures_total",
			Help: "Scan sessions that failed to initialize, by classified cause.",
		}, []string{"cause"}),
	}

	reg.MustRegister(
		m.BackendAttempts,
		m.BackendRetries,
		m.BackendFailures,
		m.CatalogLookups,
		m.ScanSessions,
		m.ScanDecodes,
		m.ScanFrameMisses,
		m.ScanInitFailures,
	)

	return m
}

// NewForTesting creates collectors on a throwaway registry.
func NewForTesting() *Metrics {
	return New(prometheus.NewRegistry())
}
