// Package insightfx provides an fx module for a disk-backed insight client
// configured from a *config.Config.
package insightfx

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/insight"
	"github.com/discochess/insight/internal/config"
	"github.com/discochess/insight/internal/stats"
)

// Module provides a disk-backed insight client.
// Requires a *zap.Logger and a *config.Config to be provided. A
// prometheus.Registerer is used for the prometheus stats backend when one
// is provided.
var Module = fx.Module("insight",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

// StatsParams holds dependencies for creating the stats collector.
type StatsParams struct {
	fx.In

	Config     *config.Config
	Logger     *zap.Logger
	Registerer prometheus.Registerer `optional:"true"`
}

func newStatsCollector(p StatsParams) (stats.Collector, error) {
	return insight.NewStatsCollector(p.Config.Stats, p.Logger.Named("insight.stats"), p.Registerer)
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *insight.Client
}

func newClient(p Params) (Result, error) {
	cfgOpt, err := insight.WithConfig(p.Config)
	if err != nil {
		return Result{}, err
	}

	client, err := insight.New(
		cfgOpt,
		insight.WithStats(p.Collector),
		insight.WithLogger(p.Logger.Named("insight")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}
