// Package retrieve collects every game a player played in a month range.
package retrieve

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/stats"
)

// Lister lists a player's archives. *archive.Resolver implements it.
type Lister interface {
	ListArchives(ctx context.Context, username string) ([]archive.Locator, error)
}

// Fetcher fetches one archive. *archive.Fetcher implements it.
type Fetcher interface {
	FetchArchive(ctx context.Context, username string, loc archive.Locator) ([]archive.Game, error)
}

// Compile-time checks.
var (
	_ Lister  = (*archive.Resolver)(nil)
	_ Fetcher = (*archive.Fetcher)(nil)
)

// Failure records one archive that could not be fetched.
type Failure struct {
	Locator archive.Locator
	Err     error
}

func (f Failure) Error() string {
	return fmt.Sprintf("archive %s: %v", f.Locator.Month, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Result is the outcome of a retrieval.
type Result struct {
	// Games from every archive fetched successfully, in month order.
	Games []archive.Game

	// Fetched lists the archives whose games are in Games.
	Fetched []archive.Locator

	// Failures lists the archives that were skipped after an error.
	Failures []Failure
}

// Err combines every archive failure, or returns nil.
func (r *Result) Err() error {
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, f)
	}
	return err
}

// Pipeline lists, filters and fetches archives.
type Pipeline struct {
	lister   Lister
	fetcher  Fetcher
	stats    stats.Collector
	logger   *zap.Logger
	progress ProgressFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(p *Pipeline) { p.stats = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// New creates a Pipeline.
func New(lister Lister, fetcher Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		lister:   lister,
		fetcher:  fetcher,
		stats:    stats.NewNoop(),
		logger:   zap.NewNop(),
		progress: func(Progress) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Retrieve returns the games username played from start through end,
// both inclusive. A failure to list archives is returned as an error. A
// failure to fetch one archive is recorded in Result.Failures and the
// remaining archives are still fetched. The only other error is ctx's.
func (p *Pipeline) Retrieve(ctx context.Context, username string, start, end archive.Month) (*Result, error) {
	locs, err := p.lister.ListArchives(ctx, username)
	if err != nil {
		return nil, err
	}

	var inRange []archive.Locator
	for _, loc := range locs {
		if loc.Month.Within(start, end) {
			inRange = append(inRange, loc)
		}
	}
	if skipped := len(locs) - len(inRange); skipped > 0 {
		p.stats.IncCounter(stats.MetricArchivesSkipped, int64(skipped))
	}

	p.logger.Info("retrieving archives",
		zap.String("username", username),
		zap.Stringer("from", start),
		zap.Stringer("to", end),
		zap.Int("available", len(locs)),
		zap.Int("in_range", len(inRange)),
	)
	p.progress(Progress{Phase: PhaseList, Username: username, Total: len(inRange)})

	res := &Result{}
	for i, loc := range inRange {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		games, err := p.fetcher.FetchArchive(ctx, username, loc)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			p.stats.IncCounter(stats.MetricArchiveFailures, 1)
			p.logger.Warn("skipping archive",
				zap.String("url", loc.URL),
				zap.Stringer("month", loc.Month),
				zap.Error(err),
			)
			res.Failures = append(res.Failures, Failure{Locator: loc, Err: err})
		} else {
			res.Games = append(res.Games, games...)
			res.Fetched = append(res.Fetched, loc)
			p.stats.IncCounter(stats.MetricGamesRetrieved, int64(len(games)))
		}

		p.progress(Progress{
			Phase:    PhaseFetch,
			Username: username,
			Locator:  loc,
			Done:     i + 1,
			Total:    len(inRange),
			Games:    len(res.Games),
			Failed:   len(res.Failures),
			Err:      err,
		})
	}

	p.progress(Progress{
		Phase:    PhaseDone,
		Username: username,
		Done:     len(inRange),
		Total:    len(inRange),
		Games:    len(res.Games),
		Failed:   len(res.Failures),
	})
	p.logger.Info("retrieval complete",
		zap.String("username", username),
		zap.Int("games", len(res.Games)),
		zap.Int("archives", len(res.Fetched)),
		zap.Int("failures", len(res.Failures)),
	)
	return res, nil
}
