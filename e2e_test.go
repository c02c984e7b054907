//go:build e2e

package insight_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/discochess/insight"
	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/stats/logger"
)

// TestE2E_LiveAPI runs the full pipeline against api.chess.com. It needs
// network access and is only built with -tags e2e.
func TestE2E_LiveAPI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cacheDir := t.TempDir()
	collector := logger.New(nil)

	newClient := func() *insight.Client {
		storeOpt, err := insight.WithCacheDir(cacheDir, "zstd")
		if err != nil {
			t.Fatalf("WithCacheDir() error = %v", err)
		}
		client, err := insight.New(storeOpt,
			insight.WithLogger(zaptest.NewLogger(t)),
			insight.WithStats(collector),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		return client
	}

	const username = "erik"
	month := archive.Month{Year: 2015, Month: 1}

	client := newClient()
	start := time.Now()
	report, err := client.Run(ctx, username, month, month)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	_ = client.Close()
	t.Logf("cold run: %d games, %d boards in %v", len(report.Retrieval.Games), report.Boards, time.Since(start))

	if len(report.Retrieval.Failures) > 0 {
		t.Errorf("archive failures: %v", report.Retrieval.Err())
	}
	for _, res := range report.Results {
		if !strings.Contains(res.Description, "Total boards analyzed:") {
			t.Errorf("%s: unexpected description %q", res.Analyzer, res.Description)
		}
	}

	requests := collector.Snapshot()["insight_http_requests_total"]

	// A second run is served entirely from the disk cache.
	client = newClient()
	defer client.Close()
	again, err := client.Run(ctx, username, month, month)
	if err != nil {
		t.Fatalf("cached Run() error = %v", err)
	}
	if got := collector.Snapshot()["insight_http_requests_total"]; got != requests {
		t.Errorf("cached run made %v requests", got-requests)
	}
	if again.Boards != report.Boards {
		t.Errorf("Boards = %d cached, %d live", again.Boards, report.Boards)
	}
}
