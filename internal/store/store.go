// Package store defines the cache store that holds raw API payloads.
//
// Entries live in one of two key spaces: archive directory listings keyed by
// username, and monthly game archives keyed by username and month. Once an
// entry is written it is authoritative; stores never expire or revalidate.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when no entry exists for a key.
var ErrNotFound = errors.New("store: entry not found")

// Space names an independent key space.
type Space string

// Key spaces used by the pipeline.
const (
	// SpaceArchives holds archive directory listings, keyed by username.
	SpaceArchives Space = "archives"

	// SpaceGames holds monthly game archives, keyed by username and month.
	SpaceGames Space = "games"
)

// Spaces lists every key space in a stable order.
func Spaces() []Space {
	return []Space{SpaceArchives, SpaceGames}
}

// Key identifies one cache entry.
type Key struct {
	Space Space
	Name  string
}

// NewKey builds a key with a path-safe name. See SanitizeName.
func NewKey(space Space, name string) Key {
	return Key{Space: space, Name: SanitizeName(name)}
}

// String returns "space/name".
func (k Key) String() string {
	return string(k.Space) + "/" + k.Name
}

// SanitizeName makes name safe to use as a single path element: path
// separators become "-", ".." sequences are collapsed and surrounding
// whitespace is dropped. Names are lower-cased because chess.com usernames
// are case-insensitive.
func SanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("/", "-", "\\", "-", ":", "-").Replace(name)
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	return strings.Trim(name, ".")
}

// Store defines the interface for cache backends.
// Get is read-only: a miss is reported as ErrNotFound and never triggers a
// fetch. Callers fetch from the remote source and Put the result themselves.
type Store interface {
	// Get returns the payload stored under key, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Put stores payload under key, replacing any previous entry.
	Put(ctx context.Context, key Key, payload []byte) error

	// Close releases any resources held by the store.
	Close() error
}

// IOError reports a failure reading or writing durable cache storage.
type IOError struct {
	Op   string // "read", "write", "mkdir", "lock"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
