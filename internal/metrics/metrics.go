// Package metrics exposes Prometheus counters for the discovery pipeline and
// an optional /metrics server.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_fetch_requests_total",
			Help: "HTTP fetches executed, by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	FetchRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_fetch_retries_total",
			Help: "Retries triggered by transient failures in the fetch layer",
		},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leads_fetch_duration_seconds",
			Help:    "Duration of HTTP fetches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method"},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_searches_total",
			Help: "Search provider queries executed, by provider",
		},
		[]string{"provider"},
	)

	SitesScannedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_sites_scanned_total",
			Help: "Candidate sites fully scanned",
		},
	)

	LeadsCommittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_committed_total",
			Help: "Lead records accepted and persisted",
		},
	)

	DuplicatesRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_duplicates_rejected_total",
			Help: "Candidate records dropped by the dedupe index",
		},
	)
)

// RecordFetch updates the fetch counters for one completed request.
func RecordFetch(method, outcome string, d time.Duration) {
	FetchRequestsTotal.WithLabelValues(method, outcome).Inc()
	FetchDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Server exposes /metrics over HTTP.
type Server struct {
	srv *http.Server
}

// Start begins serving /metrics on the given port in the background.
func Start(port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts the metrics server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
