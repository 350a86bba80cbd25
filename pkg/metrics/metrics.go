package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	ResolutionsTotal     *prometheus.CounterVec
	ProviderCallsTotal   *prometheus.CounterVec
	ProviderCallDuration *prometheus.HistogramVec
	CaptionStrategyTotal *prometheus.CounterVec
	LocationsSavedTotal  prometheus.Counter
	ResolutionCacheTotal *prometheus.CounterVec

	initOnce sync.Once
)

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolutions_total",
			Help: "Pipeline invocations by terminal source tag.",
		},
		[]string{"source"},
	)

	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "External provider calls by outcome.",
		},
		[]string{"provider", "outcome"}, // outcome: hit, miss, error
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_call_duration_seconds",
			Help:    "Duration of external provider calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	CaptionStrategyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_strategies_total",
			Help: "Caption extraction attempts by strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)

	LocationsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "locations_saved_total",
			Help: "Location records appended to the store.",
		},
	)

	ResolutionCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolution_cache_total",
			Help: "Resolution cache lookups by result.",
		},
		[]string{"result"}, // hit, miss, error
	)
}
