package memoryinsightfx

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/discochess/insight"
	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/stats/logger"
	"github.com/discochess/insight/internal/store/memstore"
)

type staticRemote struct {
	bodies map[string]string
}

func (r staticRemote) ArchivesURL(username string) string {
	return "https://api.test/player/" + username + "/games/archives"
}

func (r staticRemote) Get(ctx context.Context, rawURL string) ([]byte, error) {
	body, ok := r.bodies[rawURL]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(body), nil
}

func TestModule(t *testing.T) {
	remote := staticRemote{bodies: map[string]string{
		"https://api.test/player/player1/games/archives": `{"archives":["https://api.test/player/player1/games/2024/01"]}`,
		"https://api.test/player/player1/games/2024/01":  `{"games":[{"fen":"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"}]}`,
	}}

	var (
		client    *insight.Client
		store     *memstore.Store
		collector *logger.Collector
	)
	app := fxtest.New(t,
		fx.Supply(zap.NewNop()),
		fx.Provide(func() archive.Remote { return remote }),
		Module,
		fx.Populate(&client, &store, &collector),
	)
	app.RequireStart()

	month := archive.Month{Year: 2024, Month: 1}
	report, err := client.Run(context.Background(), "player1", month, month)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Boards != 1 {
		t.Errorf("Boards = %d, want 1", report.Boards)
	}
	if store.Len() != 2 {
		t.Errorf("store holds %d entries, want 2", store.Len())
	}
	if got := collector.Snapshot()[stats.MetricCacheWrites]; got != 2 {
		t.Errorf("cache writes = %v, want 2", got)
	}

	app.RequireStop()

	if err := client.Close(); !errors.Is(err, insight.ErrClosed) {
		t.Errorf("Close() after stop error = %v, want ErrClosed", err)
	}
}
