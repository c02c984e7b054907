// Package archive resolves and fetches a player's monthly game archives,
// caching every payload through a store.Store.
//
// Both the directory listing and each monthly archive follow the same
// read-through algorithm: look the key up in the store, parse the cached
// payload on a hit, otherwise GET the remote URL, parse it and persist the
// verbatim body. A cached payload is never revalidated, and a cached payload
// that fails to parse is an error rather than a trigger to refetch.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/store"
)

// ErrEmptyUsername is returned when no username is given.
var ErrEmptyUsername = errors.New("archive: empty username")

// Source says where a payload came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// MalformedResponseError reports a payload whose expected field is missing
// or has the wrong shape.
type MalformedResponseError struct {
	Source Source
	Key    store.Key
	Field  string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("archive: malformed %s payload for %s: field %q: %v", e.Source, e.Key, e.Field, e.Err)
	}
	return fmt.Sprintf("archive: malformed %s payload for %s: field %q missing", e.Source, e.Key, e.Field)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Remote is the subset of the chess.com client the archive package needs.
type Remote interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
	ArchivesURL(username string) string
}

// Option configures a Resolver or Fetcher.
type Option func(*readThrough)

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(r *readThrough) { r.stats = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *readThrough) { r.logger = l }
}

// readThrough implements the cache-then-remote load shared by Resolver and
// Fetcher.
type readThrough struct {
	remote Remote
	store  store.Store
	stats  stats.Collector
	logger *zap.Logger
}

func newReadThrough(remote Remote, st store.Store, opts []Option) readThrough {
	r := readThrough{
		remote: remote,
		store:  st,
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// load returns the payload for key and decodes it with parse. On a cache
// miss the payload is fetched from rawURL, parsed, then stored verbatim.
// Payloads that fail to parse are never written to the store.
func (r *readThrough) load(ctx context.Context, key store.Key, rawURL string, parse func([]byte, Source) error) (Source, error) {
	data, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		r.stats.IncCounter(stats.MetricCacheHits, 1)
		r.logger.Debug("cache hit", zap.Stringer("key", key))
		return SourceCache, parse(data, SourceCache)
	case !errors.Is(err, store.ErrNotFound):
		return SourceCache, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	r.stats.IncCounter(stats.MetricCacheMisses, 1)
	r.logger.Debug("cache miss", zap.Stringer("key", key), zap.String("url", rawURL))

	data, err = r.remote.Get(ctx, rawURL)
	if err != nil {
		return SourceRemote, err
	}
	if err := parse(data, SourceRemote); err != nil {
		return SourceRemote, err
	}

	if err := r.store.Put(ctx, key, data); err != nil {
		return SourceRemote, fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	r.stats.IncCounter(stats.MetricCacheWrites, 1)
	return SourceRemote, nil
}

// decodeField unmarshals the JSON object in data and hands the raw value of
// field to into. Missing fields and JSON errors become MalformedResponseError.
func decodeField(data []byte, key store.Key, src Source, field string, into any) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return &MalformedResponseError{Source: src, Key: key, Field: field, Err: err}
	}
	raw, ok := obj[field]
	if !ok || string(raw) == "null" {
		return &MalformedResponseError{Source: src, Key: key, Field: field}
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return &MalformedResponseError{Source: src, Key: key, Field: field, Err: err}
	}
	return nil
}
