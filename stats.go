package insight

import (
	"fmt"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/stats/logger"
	"github.com/discochess/insight/internal/stats/prometheus"
)

// NewStatsCollector returns the stats collector for backend ("none", "log"
// or "prometheus"). log is used by the log backend; reg by the prometheus
// backend, where nil means the default registerer.
func NewStatsCollector(backend string, log *zap.Logger, reg promclient.Registerer) (stats.Collector, error) {
	switch backend {
	case "", "none":
		return stats.NewNoop(), nil
	case "log":
		return logger.New(log), nil
	case "prometheus":
		return prometheus.New(reg), nil
	default:
		return nil, fmt.Errorf("unknown stats backend: %s", backend)
	}
}
