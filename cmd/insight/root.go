package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/insight"
	"github.com/discochess/insight/internal/config"
	"github.com/discochess/insight/internal/stats"
)

var (
	// Global flags.
	configPath   string
	cacheDir     string
	codecName    string
	statsBackend string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "insight",
	Short: "Analyze a chess.com player's games month by month",
	Long: `Insight downloads a player's monthly game archives from the chess.com
public API, caches them on disk, and runs analyzers over the final position
of every game in a month range.

Configuration is read from a YAML file (--config or $INSIGHT_CONFIG) and
INSIGHT_ environment variables; flags take precedence over both.

Examples:
  # Analyze January to March 2024
  insight run hikaru --from 2024/01 --to 2024/03

  # List the months a player has archives for
  insight archives hikaru

  # Inspect the cache
  insight cache stats`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&cacheDir, "cache-dir", "d", "", "cache directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&codecName, "codec", "", "cache compression: none, gzip or zstd (default from config)")
	rootCmd.PersistentFlags().StringVar(&statsBackend, "stats", "", "metrics backend: none, log or prometheus (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("cache-dir") {
		cfg.CacheDir = cacheDir
	}
	if flags.Changed("codec") {
		cfg.Codec = codecName
	}
	if flags.Changed("stats") {
		cfg.Stats = statsBackend
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a development logger in verbose mode and a production
// logger at the configured level otherwise.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	return zc.Build()
}

// env is what every subcommand needs: configuration, a logger and stats.
type env struct {
	cfg       *config.Config
	logger    *zap.Logger
	collector stats.Collector
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	collector, err := insight.NewStatsCollector(cfg.Stats, logger.Named("stats"), nil)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, collector: collector}, nil
}

// newClient builds a client from the environment plus opts.
func (e *env) newClient(opts ...insight.Option) (*insight.Client, error) {
	cfgOpt, err := insight.WithConfig(e.cfg)
	if err != nil {
		return nil, err
	}
	all := append([]insight.Option{
		cfgOpt,
		insight.WithStats(e.collector),
		insight.WithLogger(e.logger),
	}, opts...)

	client, err := insight.New(all...)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
}
