package board

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/stats"
)

// FieldFEN is the game field holding the final position.
const FieldFEN = "fen"

// Convert parses the final position of g.
func Convert(g archive.Game) (*Board, error) {
	fen, ok := g.FEN()
	if !ok || strings.TrimSpace(fen) == "" {
		return nil, &MissingFieldError{Field: FieldFEN}
	}
	return Parse(fen)
}

// Failure records a game that could not be converted.
type Failure struct {
	Index int    // position in the input slice
	URL   string // game URL, empty when the record has none
	Err   error
}

func (f Failure) Error() string {
	if f.URL != "" {
		return fmt.Sprintf("game %d (%s): %v", f.Index, f.URL, f.Err)
	}
	return fmt.Sprintf("game %d: %v", f.Index, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

type convertConfig struct {
	stats  stats.Collector
	logger *zap.Logger
}

// Option configures ConvertAll.
type Option func(*convertConfig)

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(cfg *convertConfig) { cfg.stats = c }
}

// WithLogger sets the logger that reports skipped games.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *convertConfig) { cfg.logger = l }
}

// ConvertAll converts every game it can. Games that fail are reported in
// the returned failures and left out of the boards, which keep input order.
func ConvertAll(games []archive.Game, opts ...Option) ([]*Board, []Failure) {
	cfg := convertConfig{stats: stats.NewNoop(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	boards := make([]*Board, 0, len(games))
	var failures []Failure
	for i, g := range games {
		b, err := Convert(g)
		if err != nil {
			f := Failure{Index: i, URL: g.URL(), Err: err}
			failures = append(failures, f)
			cfg.logger.Warn("skipping game", zap.Int("index", i), zap.String("url", f.URL), zap.Error(err))
			continue
		}
		boards = append(boards, b)
	}

	cfg.stats.IncCounter(stats.MetricConversions, int64(len(boards)))
	if len(failures) > 0 {
		cfg.stats.IncCounter(stats.MetricConversionFailures, int64(len(failures)))
	}
	return boards, failures
}
