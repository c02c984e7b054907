package archive

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/store"
)

// Resolver lists the monthly archives available for a player.
type Resolver struct {
	rt readThrough
}

// NewResolver creates a Resolver reading through st to remote.
func NewResolver(remote Remote, st store.Store, opts ...Option) *Resolver {
	return &Resolver{rt: newReadThrough(remote, st, opts)}
}

// DirectoryKey returns the cache key for username's archive listing.
func DirectoryKey(username string) store.Key {
	return store.NewKey(store.SpaceArchives, username)
}

// ListArchives returns username's archive locators sorted by month.
// Remote and malformed-payload errors are returned as is; without a listing
// no archive can be fetched.
func (r *Resolver) ListArchives(ctx context.Context, username string) ([]Locator, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	key := DirectoryKey(username)
	var locators []Locator

	src, err := r.rt.load(ctx, key, r.rt.remote.ArchivesURL(username), func(data []byte, src Source) error {
		var err error
		locators, err = parseDirectory(data, key, src)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing archives for %s: %w", username, err)
	}

	r.rt.stats.IncCounter(stats.MetricArchiveListings, 1)
	r.rt.logger.Debug("archives listed",
		zap.String("username", username),
		zap.String("source", string(src)),
		zap.Int("count", len(locators)),
	)
	return locators, nil
}

// parseDirectory decodes a directory listing into locators sorted by month.
func parseDirectory(data []byte, key store.Key, src Source) ([]Locator, error) {
	var urls []string
	if err := decodeField(data, key, src, "archives", &urls); err != nil {
		return nil, err
	}

	locators := make([]Locator, 0, len(urls))
	for _, u := range urls {
		loc, err := ParseLocator(u)
		if err != nil {
			return nil, &MalformedResponseError{Source: src, Key: key, Field: "archives", Err: err}
		}
		locators = append(locators, loc)
	}

	slices.SortStableFunc(locators, func(a, b Locator) int {
		return a.Month.Compare(b.Month)
	})
	return locators, nil
}
