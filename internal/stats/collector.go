// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the pipeline.
const (
	// Remote metrics.
	MetricHTTPRequests = "insight_http_requests_total"
	MetricHTTPErrors   = "insight_http_errors_total"
	MetricHTTPLatency  = "insight_http_request_seconds"

	// Retrieval metrics.
	MetricArchiveListings = "insight_archive_listings_total"
	MetricArchiveFetches  = "insight_archive_fetches_total"
	MetricArchiveFailures = "insight_archive_failures_total"
	MetricArchivesSkipped = "insight_archives_out_of_range_total"
	MetricGamesRetrieved  = "insight_games_retrieved_total"

	// Cache metrics.
	MetricCacheHits    = "insight_cache_hits_total"
	MetricCacheMisses  = "insight_cache_misses_total"
	MetricCacheWrites  = "insight_cache_writes_total"
	MetricMemCacheSize = "insight_memory_cache_size"

	// Analysis metrics.
	MetricConversions        = "insight_conversions_total"
	MetricConversionFailures = "insight_conversion_failures_total"
	MetricAnalyzerRuns       = "insight_analyzer_runs_total"
	MetricAnalyzerFailures   = "insight_analyzer_failures_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}

// Snapshotter is implemented by collectors that can report the current value
// of every counter and gauge they have seen. Histograms report their sample sum.
type Snapshotter interface {
	Snapshot() map[string]float64
}
