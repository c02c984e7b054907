// Package analysis defines the analyzer contract and runs analyzers over a
// set of boards.
package analysis

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/insight/internal/board"
	"github.com/discochess/insight/internal/stats"
)

// Analyzer turns a set of boards into a textual report.
//
// Analyze must not modify boards or retain it after returning, and must
// return a Result even when boards is empty. Analyzers hold no state
// between calls.
type Analyzer interface {
	Name() string
	Analyze(boards []*board.Board) Result
}

// Result is the report of one analyzer.
type Result struct {
	Analyzer    string
	Description string

	// Err is set when the analyzer could not produce a report.
	Err error
}

// String formats the result for display.
func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: failed: %v", r.Analyzer, r.Err)
	}
	return r.Description
}

// Registry holds analyzers in registration order.
type Registry struct {
	analyzers []Analyzer
}

// NewRegistry creates a registry holding analyzers.
func NewRegistry(analyzers ...Analyzer) *Registry {
	r := &Registry{}
	for _, a := range analyzers {
		r.Register(a)
	}
	return r
}

// Register appends a to the registry. Nil analyzers are ignored.
func (r *Registry) Register(a Analyzer) {
	if a == nil {
		return
	}
	r.analyzers = append(r.analyzers, a)
}

// Analyzers returns the registered analyzers in registration order.
func (r *Registry) Analyzers() []Analyzer {
	return slices.Clone(r.analyzers)
}

// Len returns the number of registered analyzers.
func (r *Registry) Len() int {
	return len(r.analyzers)
}

// Run runs every registered analyzer over boards.
func (r *Registry) Run(boards []*board.Board, opts ...Option) []Result {
	return Run(boards, r.analyzers, opts...)
}

type runConfig struct {
	stats  stats.Collector
	logger *zap.Logger
}

// Option configures Run.
type Option func(*runConfig)

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(cfg *runConfig) { cfg.stats = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *runConfig) { cfg.logger = l }
}

// Run runs each analyzer over boards in order and returns one Result per
// analyzer. An analyzer that panics gets a Result with Err set and the
// remaining analyzers still run.
func Run(boards []*board.Board, analyzers []Analyzer, opts ...Option) []Result {
	cfg := runConfig{stats: stats.NewNoop(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	results := make([]Result, 0, len(analyzers))
	for _, a := range analyzers {
		start := time.Now()
		res := runOne(a, boards)
		cfg.stats.IncCounter(stats.MetricAnalyzerRuns, 1)

		if res.Err != nil {
			cfg.stats.IncCounter(stats.MetricAnalyzerFailures, 1)
			cfg.logger.Error("analyzer failed", zap.String("analyzer", res.Analyzer), zap.Error(res.Err))
		} else {
			cfg.logger.Debug("analyzer finished",
				zap.String("analyzer", res.Analyzer),
				zap.Int("boards", len(boards)),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
		results = append(results, res)
	}
	return results
}

func runOne(a Analyzer, boards []*board.Board) (res Result) {
	name := a.Name()
	defer func() {
		if p := recover(); p != nil {
			res = Result{Analyzer: name, Err: fmt.Errorf("analyzer panicked: %v", p)}
		}
	}()

	// Each analyzer gets its own full-capacity slice so an append inside
	// one analyzer can never be seen by the next.
	res = a.Analyze(slices.Clip(slices.Clone(boards)))
	if res.Analyzer == "" {
		res.Analyzer = name
	}
	return res
}
