package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion worker

var (
	// Feed metrics
	FeedCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportschat_feed_calls_total",
			Help: "Total number of NCAA feed API calls",
		},
		[]string{"endpoint", "status"},
	)

	FeedCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sportschat_feed_call_duration_seconds",
			Help:    "Duration of feed API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Cycle metrics
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportschat_ingest_cycles_total",
			Help: "Total number of ingestion cycles",
		},
		[]string{"status"},
	)

	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sportschat_ingest_cycle_duration_seconds",
			Help:    "Duration of ingestion cycles in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	// Game metrics
	GamesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sportschat_games_written_total",
			Help: "Total number of game rows inserted or updated",
		},
	)

	GamesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sportschat_games_skipped_total",
			Help: "Total number of games skipped as fresh and unchanged",
		},
	)

	// Box score metrics
	BoxScoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportschat_box_scores_total",
			Help: "Box score fetch outcomes per cycle",
		},
		[]string{"outcome"},
	)

	PlayersProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sportschat_players_processed_total",
			Help: "Total number of player stat lines upserted",
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sportschat_cache_hits_total",
			Help: "Total number of box score cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sportschat_cache_misses_total",
			Help: "Total number of box score cache misses",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportschat_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sportschat_system_uptime_seconds",
			Help: "Worker uptime in seconds",
		},
	)

	LastSuccessfulCycle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sportschat_last_successful_cycle_timestamp",
			Help: "Timestamp of the last successful ingestion cycle",
		},
	)
)

// RecordFeedCall records a feed API call metric.
func RecordFeedCall(endpoint, status string, duration float64) {
	FeedCallsTotal.WithLabelValues(endpoint, status).Inc()
	FeedCallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordCycle records a completed ingestion cycle.
func RecordCycle(status string, duration float64) {
	CyclesTotal.WithLabelValues(status).Inc()
	CycleDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulCycle.SetToCurrentTime()
	}
}

// RecordBoxScore records a box score fetch outcome
// (processed, pending, error).
func RecordBoxScore(outcome string) {
	BoxScoresTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheHit records a box score cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a box score cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordError records an error by component and type.
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
