package archive

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/store"
)

// Fetcher retrieves the games of one monthly archive.
type Fetcher struct {
	rt readThrough
}

// NewFetcher creates a Fetcher reading through st to remote.
func NewFetcher(remote Remote, st store.Store, opts ...Option) *Fetcher {
	return &Fetcher{rt: newReadThrough(remote, st, opts)}
}

// MonthKey returns the cache key for username's archive of month m.
// The username is part of the key so that different players' archives for
// the same month never collide.
func MonthKey(username string, m Month) store.Key {
	return store.NewKey(store.SpaceGames, fmt.Sprintf("%s-%04d-%02d", username, m.Year, m.Month))
}

// FetchArchive returns the games in the archive at loc.
func (f *Fetcher) FetchArchive(ctx context.Context, username string, loc Locator) ([]Game, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	key := MonthKey(username, loc.Month)
	var games []Game

	src, err := f.rt.load(ctx, key, loc.URL, func(data []byte, src Source) error {
		var err error
		games, err = parseArchive(data, key, src)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching archive %s: %w", loc.Month, err)
	}

	f.rt.stats.IncCounter(stats.MetricArchiveFetches, 1)
	f.rt.logger.Debug("archive fetched",
		zap.String("username", username),
		zap.Stringer("month", loc.Month),
		zap.String("source", string(src)),
		zap.Int("games", len(games)),
	)
	return games, nil
}

// parseArchive decodes a monthly archive into its games.
func parseArchive(data []byte, key store.Key, src Source) ([]Game, error) {
	var games []Game
	if err := decodeField(data, key, src, "games", &games); err != nil {
		return nil, err
	}
	return games, nil
}
