package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Source adapters
	SourceEventsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturesync_source_events_fetched_total",
			Help: "Raw events returned by each source adapter",
		},
		[]string{"source"},
	)

	SourceFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturesync_source_fallbacks_total",
			Help: "Fetches that failed and were answered from the adapter's static fallback set",
		},
		[]string{"source"},
	)

	SourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturesync_source_failures_total",
			Help: "Adapter calls that returned an error or panicked and contributed no events",
		},
		[]string{"source"},
	)

	// Enrichment
	EnrichmentResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturesync_enrichment_results_total",
			Help: "Enriched events by the tier that produced them",
		},
		[]string{"tier"}, // provider name or "rule_based"
	)

	AIProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturesync_ai_provider_requests_total",
			Help: "AI provider calls by outcome",
		},
		[]string{"provider", "outcome"}, // success, failure, rejected
	)

	AIProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "culturesync_ai_provider_duration_seconds",
			Help:    "Latency of AI provider calls",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"provider"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "culturesync_circuit_breaker_state",
			Help: "Circuit breaker state per AI provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Cache
	CacheRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturesync_cache_refreshes_total",
			Help: "Aggregation+enrichment cycles by outcome",
		},
		[]string{"outcome"}, // success, failure
	)

	CacheRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "culturesync_cache_refresh_duration_seconds",
			Help:    "Duration of a full aggregation+enrichment cycle",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
	)

	CacheEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "culturesync_cache_events",
			Help: "Events currently served from the cache",
		},
	)

	// Submissions
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturesync_submissions_total",
			Help: "User submissions by outcome and scorer",
		},
		[]string{"outcome", "scorer"},
	)

	Translations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturesync_translations_total",
			Help: "On-demand translations by language and path",
		},
		[]string{"language", "path"}, // ai, dictionary
	)
)
