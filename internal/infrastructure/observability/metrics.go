package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCount      *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	NarrativeRequests *prometheus.CounterVec
	CacheHitCount     prometheus.Counter
	CacheMissCount    prometheus.Counter
}

// InitMetrics registers application metrics with the default registry.
func InitMetrics() *Metrics {
	return &Metrics{
		RequestCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_http_requests_total",
			Help: "Number of HTTP requests",
		}, []string{"method", "path", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triage_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		NarrativeRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_narrative_requests_total",
			Help: "Narrative generation requests by outcome",
		}, []string{"kind", "outcome"}),
		CacheHitCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "triage_narrative_cache_hits_total",
			Help: "Number of narrative cache hits",
		}),
		CacheMissCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "triage_narrative_cache_misses_total",
			Help: "Number of narrative cache misses",
		}),
	}
}
