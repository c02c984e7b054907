// Package logger provides a zap-based stats collector that logs metrics.
package logger

import (
	"maps"
	"sync"

	"go.uber.org/zap"

	"github.com/discochess/insight/internal/stats"
)

// Collector implements stats.Collector by logging metrics via zap.
// It also keeps running totals so a run can print a summary at the end.
type Collector struct {
	logger *zap.Logger

	mu     sync.Mutex
	totals map[string]float64
}

// Compile-time checks.
var (
	_ stats.Collector   = (*Collector)(nil)
	_ stats.Snapshotter = (*Collector)(nil)
)

// New creates a new logger-based collector.
// If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		logger: logger,
		totals: make(map[string]float64),
	}
}

// IncCounter logs a counter increment.
func (c *Collector) IncCounter(name string, delta int64) {
	c.mu.Lock()
	c.totals[name] += float64(delta)
	total := c.totals[name]
	c.mu.Unlock()

	c.logger.Debug("counter",
		zap.String("metric", name),
		zap.Int64("delta", delta),
		zap.Float64("total", total),
	)
}

// SetGauge logs a gauge value.
func (c *Collector) SetGauge(name string, value int64) {
	c.mu.Lock()
	c.totals[name] = float64(value)
	c.mu.Unlock()

	c.logger.Debug("gauge",
		zap.String("metric", name),
		zap.Int64("value", value),
	)
}

// ObserveHistogram logs a histogram observation.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.mu.Lock()
	c.totals[name] += value
	c.mu.Unlock()

	c.logger.Debug("histogram",
		zap.String("metric", name),
		zap.Float64("value", value),
	)
}

// Snapshot returns a copy of the running totals.
func (c *Collector) Snapshot() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.totals)
}
