// Package memoryinsightfx provides an fx module for an insight client backed
// by an in-memory store. Useful for testing.
package memoryinsightfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/insight"
	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/stats/logger"
	"github.com/discochess/insight/internal/store/memstore"
)

// Module provides an in-memory insight client for testing.
// Requires a *zap.Logger to be provided. An archive.Remote replaces the
// chess.com client when one is provided.
var Module = fx.Module("memoryinsight",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) *logger.Collector {
	return logger.New(log.Named("insight.stats"))
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector *logger.Collector
	Store     *memstore.Store
	Remote    archive.Remote `optional:"true"`
	Lifecycle fx.Lifecycle
}

// Result holds the provided client. The store and collector are provided
// by their concrete types too, so tests can seed the cache and read metrics.
type Result struct {
	fx.Out

	Client    *insight.Client
	Collector stats.Collector
}

func newClient(p Params) (Result, error) {
	opts := []insight.Option{
		insight.WithStore(p.Store),
		insight.WithStats(p.Collector),
		insight.WithLogger(p.Logger.Named("insight")),
	}
	if p.Remote != nil {
		opts = append(opts, insight.WithRemote(p.Remote))
	}

	client, err := insight.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client, Collector: p.Collector}, nil
}
