// Package metrics provides the Prometheus metrics registry for the preview service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PreviewsComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "house_odds",
		Name:      "previews_computed_total",
		Help:      "Total number of odds previews computed",
	})
	CompressedQuotesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "house_odds",
		Name:      "compressed_quotes_total",
		Help:      "Total number of quotes smoothed inside the near-evens band",
	})
	SentinelQuotesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "house_odds",
		Name:      "sentinel_quotes_total",
		Help:      "Total number of quotes with zero implied probability",
	})
	PreviewRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "house_odds",
		Name:      "preview_requests_total",
		Help:      "Total number of preview requests by surface and result",
	}, []string{"surface", "result"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "house_odds",
		Name:      "preview_cache_hits_total",
		Help:      "Total number of preview cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "house_odds",
		Name:      "preview_cache_misses_total",
		Help:      "Total number of preview cache misses",
	})
)

// Gauge metrics
var (
	LiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "house_odds",
		Name:      "live_preview_sessions",
		Help:      "Number of open live preview connections",
	})
	CacheItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "house_odds",
		Name:      "preview_cache_items",
		Help:      "Number of previews held in the cache",
	})
)

// Histogram metrics
var (
	PreviewComputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "house_odds",
		Name:      "preview_compute_duration_seconds",
		Help:      "Duration of preview computations in seconds",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})
	PreviewOutcomeCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "house_odds",
		Name:      "preview_outcome_count",
		Help:      "Number of outcomes per preview",
		Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16, 32, 64},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PreviewsComputedTotal)
		registry.MustRegister(CompressedQuotesTotal)
		registry.MustRegister(SentinelQuotesTotal)
		registry.MustRegister(PreviewRequestsTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)

		registry.MustRegister(LiveSessions)
		registry.MustRegister(CacheItems)

		registry.MustRegister(PreviewComputeDuration)
		registry.MustRegister(PreviewOutcomeCount)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPreview records a computed preview.
func RecordPreview(outcomes, compressed, sentinel int, durationSeconds float64) {
	PreviewsComputedTotal.Inc()
	CompressedQuotesTotal.Add(float64(compressed))
	SentinelQuotesTotal.Add(float64(sentinel))
	PreviewOutcomeCount.Observe(float64(outcomes))
	PreviewComputeDuration.Observe(durationSeconds)
}

// RecordRequest records a preview request on a surface (http, form, ws).
func RecordRequest(surface, result string) {
	PreviewRequestsTotal.WithLabelValues(surface, result).Inc()
}

// RecordCacheHit records a preview cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a preview cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// UpdateCacheItems updates the cached preview gauge.
func UpdateCacheItems(count int) {
	CacheItems.Set(float64(count))
}

// SessionOpened increments the live session gauge.
func SessionOpened() {
	LiveSessions.Inc()
}

// SessionClosed decrements the live session gauge.
func SessionClosed() {
	LiveSessions.Dec()
}
