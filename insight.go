// Package insight retrieves a chess.com player's monthly game archives,
// caches them on disk, and runs pluggable analyzers over the final
// positions of the games in a month range.
//
// Example usage:
//
//	opt, err := insight.WithCacheDir("/path/to/cache", "zstd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := insight.New(opt)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	report, err := client.Run(ctx, "hikaru", archive.Month{Year: 2024, Month: 1}, archive.Month{Year: 2024, Month: 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, res := range report.Results {
//	    fmt.Println(res)
//	}
package insight

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/discochess/insight/internal/analysis"
	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/board"
	"github.com/discochess/insight/internal/chesscom"
	"github.com/discochess/insight/internal/retrieve"
	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/store"
	"github.com/discochess/insight/internal/store/cachedstore"
	"github.com/discochess/insight/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/insight/internal/store/cachedstore/memory"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("insight: client closed")

	// ErrNoStore indicates no store was provided.
	ErrNoStore = errors.New("insight: no store provided")
)

// Client retrieves, converts and analyzes a player's games.
// A Client is safe for concurrent use, but a single retrieval is sequential.
type Client struct {
	store    store.Store
	resolver *archive.Resolver
	pipeline *retrieve.Pipeline
	registry *analysis.Registry
	stats    stats.Collector
	logger   *zap.Logger
	closed   atomic.Bool
}

// Report is the outcome of Run.
type Report struct {
	Username string
	Start    archive.Month
	End      archive.Month

	// Retrieval holds the games and per-archive failures.
	Retrieval *retrieve.Result

	// Boards is the number of games converted successfully.
	Boards int

	// ConversionFailures lists the games that could not be converted.
	ConversionFailures []board.Failure

	// Results holds one entry per analyzer, in registration order.
	Results []analysis.Result
}

// New creates a new Client with the given options.
// A store is required; see WithStore and WithCacheDir.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.store == nil {
		return nil, ErrNoStore
	}

	st := cfg.store
	if cfg.memoryCacheSize > 0 {
		strategy, err := lru.New(cfg.memoryCacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating memory cache: %w", err)
		}
		st = cachedstore.New(st, memory.New(strategy, cfg.stats))
	}

	remote := cfg.remote
	if remote == nil {
		clientOpts := append([]chesscom.Option{
			chesscom.WithStats(cfg.stats),
			chesscom.WithLogger(cfg.logger.Named("chesscom")),
		}, cfg.clientOpts...)
		remote = chesscom.New(clientOpts...)
	}

	analyzers := cfg.analyzers
	if analyzers == nil {
		analyzers = DefaultAnalyzers()
	}

	archiveOpts := []archive.Option{
		archive.WithStats(cfg.stats),
		archive.WithLogger(cfg.logger.Named("archive")),
	}
	resolver := archive.NewResolver(remote, st, archiveOpts...)
	fetcher := archive.NewFetcher(remote, st, archiveOpts...)

	pipelineOpts := []retrieve.Option{
		retrieve.WithStats(cfg.stats),
		retrieve.WithLogger(cfg.logger.Named("retrieve")),
	}
	if cfg.progress != nil {
		pipelineOpts = append(pipelineOpts, retrieve.WithProgress(cfg.progress))
	}

	c := &Client{
		store:    st,
		resolver: resolver,
		pipeline: retrieve.New(resolver, fetcher, pipelineOpts...),
		registry: analysis.NewRegistry(analyzers...),
		stats:    cfg.stats,
		logger:   cfg.logger,
	}

	c.logger.Debug("client initialized",
		zap.Int("analyzers", c.registry.Len()),
		zap.Int("memoryCacheSize", cfg.memoryCacheSize),
	)

	return c, nil
}

// Archives lists the months username has archives for, oldest first.
func (c *Client) Archives(ctx context.Context, username string) ([]archive.Locator, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.resolver.ListArchives(ctx, username)
}

// Games retrieves the games username played from start through end
// inclusive. Archives that fail are listed in the result's Failures.
func (c *Client) Games(ctx context.Context, username string, start, end archive.Month) (*retrieve.Result, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.pipeline.Retrieve(ctx, username, start, end)
}

// Boards converts games to boards, skipping games that fail.
func (c *Client) Boards(games []archive.Game) ([]*board.Board, []board.Failure) {
	return board.ConvertAll(games,
		board.WithStats(c.stats),
		board.WithLogger(c.logger.Named("board")),
	)
}

// Analyze runs every configured analyzer over boards.
func (c *Client) Analyze(boards []*board.Board) []analysis.Result {
	return c.registry.Run(boards,
		analysis.WithStats(c.stats),
		analysis.WithLogger(c.logger.Named("analysis")),
	)
}

// Run retrieves, converts and analyzes username's games from start through
// end inclusive. It fails only when the archive listing cannot be obtained
// or ctx is done; per-archive and per-game failures are in the Report.
func (c *Client) Run(ctx context.Context, username string, start, end archive.Month) (*Report, error) {
	res, err := c.Games(ctx, username, start, end)
	if err != nil {
		return nil, fmt.Errorf("retrieving games for %s: %w", username, err)
	}

	boards, failures := c.Boards(res.Games)
	return &Report{
		Username:           username,
		Start:              start,
		End:                end,
		Retrieval:          res,
		Boards:             len(boards),
		ConversionFailures: failures,
		Results:            c.Analyze(boards),
	}, nil
}

// Analyzers returns the configured analyzers in report order.
func (c *Client) Analyzers() []analysis.Analyzer {
	return c.registry.Analyzers()
}

// Store returns the cache store used by this client.
func (c *Client) Store() store.Store {
	return c.store
}

// Close releases all resources associated with the client.
// After Close, the client should not be used.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if err := c.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}
