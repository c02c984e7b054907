// Package config defines insight's runtime configuration and how it is
// loaded from defaults, an optional YAML file and INSIGHT_ environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/discochess/insight/internal/chesscom"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("config: invalid config")
	ErrLoadConfig    = errors.New("config: load failed")
)

// Codecs accepted by the Codec field.
var Codecs = []string{"none", "gzip", "zstd"}

// StatsBackends accepted by the Stats field.
var StatsBackends = []string{"none", "log", "prometheus"}

// Config contains process configuration.
type Config struct {
	// CacheDir is the root of the on-disk cache.
	CacheDir string `koanf:"cache_dir"`

	// Codec compresses cache payloads: none, gzip or zstd.
	Codec string `koanf:"codec"`

	// BaseURL is the chess.com public API root.
	BaseURL string `koanf:"base_url"`

	// UserAgent identifies the client to chess.com.
	UserAgent string `koanf:"user_agent"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `koanf:"timeout"`

	// Rate and Burst configure the client-side request rate limit.
	Rate  float64 `koanf:"rate"`
	Burst int     `koanf:"burst"`

	// MemoryCacheSize is the number of payloads kept in memory in front of
	// the disk cache. Zero disables the memory tier.
	MemoryCacheSize int `koanf:"memory_cache_size"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Stats selects the metrics backend: none, log or prometheus.
	Stats string `koanf:"stats"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		CacheDir:        DefaultCacheDir(),
		Codec:           "none",
		BaseURL:         chesscom.DefaultBaseURL,
		UserAgent:       chesscom.DefaultUserAgent,
		Timeout:         chesscom.DefaultTimeout,
		Rate:            float64(chesscom.DefaultRate),
		Burst:           chesscom.DefaultBurst,
		MemoryCacheSize: 64,
		LogLevel:        "info",
		Stats:           "none",
	}
}

// DefaultCacheDir returns the user cache directory for insight, falling
// back to ./cache when the platform has none.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "cache"
	}
	return filepath.Join(dir, "insight")
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.CacheDir == "":
		return fmt.Errorf("%w: cache_dir must not be empty", ErrInvalidConfig)
	case !slices.Contains(Codecs, c.Codec):
		return fmt.Errorf("%w: codec %q not one of %v", ErrInvalidConfig, c.Codec, Codecs)
	case c.BaseURL == "":
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	case c.UserAgent == "":
		return fmt.Errorf("%w: user_agent must not be empty", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	case c.Rate <= 0:
		return fmt.Errorf("%w: rate must be positive", ErrInvalidConfig)
	case c.Burst < 1:
		return fmt.Errorf("%w: burst must be at least 1", ErrInvalidConfig)
	case c.MemoryCacheSize < 0:
		return fmt.Errorf("%w: memory_cache_size must not be negative", ErrInvalidConfig)
	case !slices.Contains(StatsBackends, c.Stats):
		return fmt.Errorf("%w: stats %q not one of %v", ErrInvalidConfig, c.Stats, StatsBackends)
	}
	return nil
}
