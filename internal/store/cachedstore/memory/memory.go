// Package memory implements an in-memory tier backend.
package memory

import (
	"sync/atomic"

	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/store/cachedstore"
	"github.com/discochess/insight/internal/store/cachedstore/cachestrategy"
)

// Compile-time check that Backend implements cachedstore.Backend.
var _ cachedstore.Backend = (*Backend)(nil)

// Backend is a thread-safe in-memory cache backend.
type Backend struct {
	strategy  cachestrategy.Strategy
	collector stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a new memory backend with the given eviction strategy.
// The collector is optional; if nil, a no-op collector is used.
func New(strategy cachestrategy.Strategy, collector stats.Collector) *Backend {
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Backend{
		strategy:  strategy,
		collector: collector,
	}
}

// Get retrieves a payload from memory.
func (b *Backend) Get(key string) ([]byte, bool) {
	if val, ok := b.strategy.Get(key); ok {
		b.hits.Add(1)
		return val, true
	}
	b.misses.Add(1)
	return nil, false
}

// Set stores a payload in memory.
func (b *Backend) Set(key string, data []byte) {
	b.strategy.Add(key, data)
	b.collector.SetGauge(stats.MetricMemCacheSize, int64(b.strategy.Len()))
}

// Stats returns current statistics.
func (b *Backend) Stats() cachedstore.Stats {
	return cachedstore.Stats{
		Hits:   b.hits.Load(),
		Misses: b.misses.Load(),
		Size:   b.strategy.Len(),
	}
}
