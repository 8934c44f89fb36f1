package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "roomify", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "roomify", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	TrainingRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "roomify", Name: "training_runs_total", Help: "Model training runs."},
		[]string{"outcome"}, // outcome: ok|error|load_error
	)
	TrainingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "roomify", Name: "training_duration_seconds",
			Help:    "Model training duration seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
	Optimizations = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "roomify", Name: "optimizations_total", Help: "Grid-search optimizations."},
	)
	GridPoints = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "roomify", Name: "optimization_grid_points",
			Help:    "Candidate prices evaluated per optimization.",
			Buckets: prometheus.ExponentialBuckets(4, 2, 8),
		},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "roomify", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, TrainingRuns, TrainingDuration, Optimizations, GridPoints, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveTraining(outcome string, dur time.Duration) {
	TrainingRuns.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		TrainingDuration.Observe(dur.Seconds())
	}
}

func ObserveOptimization(gridPoints int) {
	Optimizations.Inc()
	GridPoints.Observe(float64(gridPoints))
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
