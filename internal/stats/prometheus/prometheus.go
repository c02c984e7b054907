// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/insight/internal/stats"
)

// help holds descriptions for the metrics the pipeline emits.
// Unknown names fall back to the metric name itself.
var help = map[string]string{
	stats.MetricHTTPRequests:       "Requests issued to the chess.com API.",
	stats.MetricHTTPErrors:         "Requests that failed or returned a non-2xx status.",
	stats.MetricHTTPLatency:        "Latency of chess.com API requests in seconds.",
	stats.MetricArchiveListings:    "Archive directory listings resolved.",
	stats.MetricArchiveFetches:     "Monthly archives fetched (cache or network).",
	stats.MetricArchiveFailures:    "Monthly archives that could not be fetched.",
	stats.MetricArchivesSkipped:    "Archives outside the requested month range.",
	stats.MetricGamesRetrieved:     "Game records retrieved.",
	stats.MetricCacheHits:          "Cache lookups served from the cache.",
	stats.MetricCacheMisses:        "Cache lookups that missed.",
	stats.MetricCacheWrites:        "Payloads written to the cache.",
	stats.MetricMemCacheSize:       "Entries held in the in-memory cache tier.",
	stats.MetricConversions:        "Games converted into boards.",
	stats.MetricConversionFailures: "Games whose position could not be converted.",
	stats.MetricAnalyzerRuns:       "Analyzer invocations.",
	stats.MetricAnalyzerFailures:   "Analyzer invocations that panicked.",
}

// Collector implements stats.Collector using Prometheus metrics.
type Collector struct {
	registry prometheus.Registerer

	mu         sync.RWMutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// Compile-time checks.
var (
	_ stats.Collector   = (*Collector)(nil)
	_ stats.Snapshotter = (*Collector)(nil)
)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	counter := getOrCreate(c, c.counters, name, func() prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: helpFor(name)})
	})
	counter.Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	gauge := getOrCreate(c, c.gauges, name, func() prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: helpFor(name)})
	})
	gauge.Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	histogram := getOrCreate(c, c.histograms, name, func() prometheus.Histogram {
		return prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    name,
			Help:    helpFor(name),
			Buckets: prometheus.DefBuckets,
		})
	})
	histogram.Observe(value)
}

// Snapshot gathers the current metric values. It returns nil when the
// registry cannot be gathered from.
func (c *Collector) Snapshot() map[string]float64 {
	g, ok := c.registry.(prometheus.Gatherer)
	if !ok {
		return nil
	}
	families, err := g.Gather()
	if err != nil {
		return nil
	}

	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[mf.GetName()] += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[mf.GetName()] += m.GetHistogram().GetSampleSum()
			}
		}
	}
	return out
}

// getOrCreate returns the metric registered under name, creating and
// registering it on first use. If the registry already holds a metric of the
// same type under that name, the existing one is reused.
func getOrCreate[M prometheus.Collector](c *Collector, metrics map[string]M, name string, create func() M) M {
	c.mu.RLock()
	m, ok := metrics[name]
	c.mu.RUnlock()
	if ok {
		return m
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok = metrics[name]; ok {
		return m
	}

	m = create()
	if err := c.registry.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				m = existing
			}
		}
		// Otherwise keep the unregistered metric; it still records values.
	}
	metrics[name] = m
	return m
}

func helpFor(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}
