package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// ComplaintsSubmitted counts complaints persisted after confirmation.
	ComplaintsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "antikor_complaints_submitted_total",
			Help: "Total number of complaints submitted through the bot",
		},
		[]string{"anonymous"}, // "true" / "false"
	)

	// BroadcastDeliveries counts per-user broadcast delivery outcomes.
	BroadcastDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "antikor_broadcast_deliveries_total",
			Help: "Total number of broadcast delivery attempts",
		},
		[]string{"outcome"}, // outcome: sent, blocked, failed
	)

	// ThrottledUpdates counts updates dropped by the per-user throttling gate.
	ThrottledUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "antikor_throttled_updates_total",
			Help: "Total number of updates dropped by the throttling gate",
		},
	)

	// NotifierJobs counts operator-channel notification jobs.
	NotifierJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "antikor_notifier_jobs_total",
			Help: "Total number of operator notification jobs",
		},
		[]string{"status"}, // status: delivered, failed
	)
)

func init() {
	prometheus.MustRegister(ComplaintsSubmitted)
	prometheus.MustRegister(BroadcastDeliveries)
	prometheus.MustRegister(ThrottledUpdates)
	prometheus.MustRegister(NotifierJobs)
}

// MustServe exposes Prometheus metrics on the given address (e.g., ":9090").
// It launches the http.Server in a separate goroutine and returns it so the
// caller can gracefully shut it down.
func MustServe(addr string, log *zap.SugaredLogger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("metrics server failed", "addr", addr, "err", err)
		}
	}()

	log.Infow("metrics endpoint started", "addr", addr)
	return srv
}
