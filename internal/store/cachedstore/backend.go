// Package cachedstore layers an in-process memory tier over a durable Store.
package cachedstore

// Backend defines the interface for memory tier backends.
// Implementations handle storage and eviction strategy.
type Backend interface {
	// Get retrieves a cached payload. Returns nil, false if not found.
	Get(key string) ([]byte, bool)

	// Set stores a payload in the memory tier.
	Set(key string, data []byte)

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains memory tier statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of entries
}

// HitRate returns the hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
