package memory

import (
	"testing"

	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/stats/logger"
	"github.com/discochess/insight/internal/store/cachedstore/cachestrategy/lru"
)

func newLRU(t *testing.T, capacity int) *lru.Strategy {
	t.Helper()
	strategy, err := lru.New(capacity)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	return strategy
}

func TestBackend_GetSet(t *testing.T) {
	b := New(newLRU(t, 10), nil)

	if _, ok := b.Get("archives/player1"); ok {
		t.Error("Get() should return false for missing key")
	}

	b.Set("archives/player1", []byte(`{"archives":[]}`))
	data, ok := b.Get("archives/player1")
	if !ok {
		t.Fatal("Get() should return true after Set")
	}
	if string(data) != `{"archives":[]}` {
		t.Errorf("Get() = %q", data)
	}
}

func TestBackend_Stats(t *testing.T) {
	collector := logger.New(nil)
	b := New(newLRU(t, 10), collector)

	b.Set("games/a", []byte("data"))
	b.Get("games/a") // Hit.
	b.Get("games/b") // Miss.

	s := b.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Size != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, size 1", s)
	}
	if got := collector.Snapshot()[stats.MetricMemCacheSize]; got != 1 {
		t.Errorf("size gauge = %v, want 1", got)
	}
}

func TestBackend_LRUEviction(t *testing.T) {
	b := New(newLRU(t, 2), nil)

	b.Set("games/2024-01", []byte("one"))
	b.Set("games/2024-02", []byte("two"))
	b.Set("games/2024-03", []byte("three")) // Evicts 2024-01.

	if _, ok := b.Get("games/2024-01"); ok {
		t.Error("oldest entry should have been evicted")
	}
	for _, k := range []string{"games/2024-02", "games/2024-03"} {
		if _, ok := b.Get(k); !ok {
			t.Errorf("Get(%q) should return true", k)
		}
	}
}

func TestLRU_InvalidCapacity(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := lru.New(n); err == nil {
			t.Errorf("lru.New(%d) should return error", n)
		}
	}
}

// fakeStrategy is a simple strategy for testing injection.
type fakeStrategy struct {
	data map[string][]byte
}

func (s *fakeStrategy) Get(key string) ([]byte, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStrategy) Add(key string, value []byte) bool {
	s.data[key] = value
	return false
}

func (s *fakeStrategy) Len() int {
	return len(s.data)
}

func TestBackend_InjectableStrategy(t *testing.T) {
	b := New(&fakeStrategy{data: make(map[string][]byte)}, nil)

	b.Set("k", []byte("test"))
	if data, ok := b.Get("k"); !ok || string(data) != "test" {
		t.Error("injectable strategy should work")
	}
}
