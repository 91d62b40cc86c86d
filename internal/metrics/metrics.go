package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/sections-api/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth metrics

	AuthAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sections",
		Name:      "auth_attempts_total",
		Help:      "Register and login attempts, by operation and outcome.",
	}, []string{"operation", "outcome"})

	// Document metrics

	DocumentSavesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sections",
		Name:      "document_saves_total",
		Help:      "Successful document saves, split by first save vs. update.",
	}, []string{"result"})

	DocumentSizeBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sections",
		Name:      "document_size_bytes",
		Help:      "Size of saved document content.",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sections",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sections",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		AuthAttemptsTotal,
		DocumentSavesTotal,
		DocumentSizeBytes,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer exposes /metrics plus liveness and readiness probes.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, res health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if res.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(res)
}
