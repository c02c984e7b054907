package insight

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/discochess/insight/internal/analysis"
	"github.com/discochess/insight/internal/analysis/material"
	"github.com/discochess/insight/internal/analysis/piececount"
	"github.com/discochess/insight/internal/analysis/sidetomove"
	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/chesscom"
	"github.com/discochess/insight/internal/codec"
	"github.com/discochess/insight/internal/codec/gzipcodec"
	"github.com/discochess/insight/internal/codec/noopcodec"
	"github.com/discochess/insight/internal/codec/zstdcodec"
	"github.com/discochess/insight/internal/config"
	"github.com/discochess/insight/internal/retrieve"
	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/store"
	"github.com/discochess/insight/internal/store/diskstore"
)

// Option configures a Client.
type Option interface {
	apply(*options)
}

// options holds the client configuration.
type options struct {
	store           store.Store
	memoryCacheSize int
	remote          archive.Remote
	clientOpts      []chesscom.Option
	analyzers       []analysis.Analyzer
	progress        retrieve.ProgressFunc
	stats           stats.Collector
	logger          *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the cache store.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithMemoryCache keeps up to size payloads in an LRU in front of the
// store. Zero disables the memory tier, which is the default.
func WithMemoryCache(size int) Option {
	return optionFunc(func(o *options) {
		o.memoryCacheSize = size
	})
}

// WithRemote sets the source of archive payloads. It replaces the default
// chess.com client and makes WithHTTPClient and similar options moot.
func WithRemote(r archive.Remote) Option {
	return optionFunc(func(o *options) {
		o.remote = r
	})
}

// WithHTTPClient sets the HTTP client used to reach chess.com.
func WithHTTPClient(c *http.Client) Option {
	return optionFunc(func(o *options) {
		o.clientOpts = append(o.clientOpts, chesscom.WithHTTPClient(c))
	})
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(base string) Option {
	return optionFunc(func(o *options) {
		o.clientOpts = append(o.clientOpts, chesscom.WithBaseURL(base))
	})
}

// WithUserAgent sets the User-Agent sent to chess.com.
func WithUserAgent(ua string) Option {
	return optionFunc(func(o *options) {
		o.clientOpts = append(o.clientOpts, chesscom.WithUserAgent(ua))
	})
}

// WithTimeout bounds each request to chess.com.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.clientOpts = append(o.clientOpts, chesscom.WithTimeout(d))
	})
}

// WithRateLimit caps requests to chess.com at r per second with the
// given burst.
func WithRateLimit(r float64, burst int) Option {
	return optionFunc(func(o *options) {
		o.clientOpts = append(o.clientOpts, chesscom.WithRateLimit(rate.Limit(r), burst))
	})
}

// WithAnalyzers sets the analyzers run by Analyze and Run, in order.
// If not set, DefaultAnalyzers is used.
func WithAnalyzers(analyzers ...analysis.Analyzer) Option {
	return optionFunc(func(o *options) {
		o.analyzers = analyzers
	})
}

// WithProgress sets a callback invoked as archives are retrieved.
func WithProgress(fn retrieve.ProgressFunc) Option {
	return optionFunc(func(o *options) {
		o.progress = fn
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithCacheDir stores payloads on disk under dir, compressed with the named
// codec ("none", "gzip" or "zstd").
func WithCacheDir(dir, codecName string) (Option, error) {
	c, err := NewCodec(codecName)
	if err != nil {
		return nil, err
	}

	st, err := diskstore.New(dir, c)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return WithStore(st), nil
}

// WithConfig applies every setting in cfg except logging and stats, which
// the caller builds.
func WithConfig(cfg *config.Config) (Option, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	storeOpt, err := WithCacheDir(cfg.CacheDir, cfg.Codec)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		storeOpt,
		WithMemoryCache(cfg.MemoryCacheSize),
		WithBaseURL(cfg.BaseURL),
		WithUserAgent(cfg.UserAgent),
		WithTimeout(cfg.Timeout),
		WithRateLimit(cfg.Rate, cfg.Burst),
	}
	return optionFunc(func(o *options) {
		for _, opt := range opts {
			opt.apply(o)
		}
	}), nil
}

// NewCodec returns the cache codec with the given name.
func NewCodec(name string) (codec.Codec, error) {
	switch name {
	case "", "none":
		return noopcodec.New(), nil
	case "gzip":
		return gzipcodec.New(), nil
	case "zstd":
		c, err := zstdcodec.New()
		if err != nil {
			return nil, fmt.Errorf("creating zstd codec: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown codec: %s", name)
	}
}

// DefaultAnalyzers returns the bundled analyzers in their report order.
func DefaultAnalyzers() []analysis.Analyzer {
	return []analysis.Analyzer{
		piececount.New(),
		material.New(),
		sidetomove.New(),
	}
}
