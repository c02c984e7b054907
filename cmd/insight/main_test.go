package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/discochess/insight"
	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/board"
	"github.com/discochess/insight/internal/retrieve"
	"github.com/discochess/insight/internal/stats"
	"github.com/discochess/insight/internal/stats/logger"
	"github.com/discochess/insight/internal/store"
	"github.com/discochess/insight/internal/store/diskstore"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/player/player1/games/archives", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"archives":["%s/player/player1/games/2024/01"]}`, srv.URL)
	})
	mux.HandleFunc("/player/player1/games/2024/01", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"games":[
			{"url":"g1","fen":"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
			{"url":"g2","fen":"4k3/8/8/8/8/8/8/R3K3 w - - 0 40"},
			{"url":"g3"}
		]}`)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	srv := newAPI(t)
	dir := t.TempDir()

	t.Setenv("INSIGHT_CONFIG", "")
	t.Setenv("INSIGHT_BASE_URL", srv.URL)
	t.Setenv("INSIGHT_RATE", "1000")
	t.Setenv("INSIGHT_LOG_LEVEL", "error")

	out, err := execute(t, "run", "player1", "--from", "2024/01", "--to", "2024/01",
		"--cache-dir", dir, "--codec", "gzip", "--stats", "log", "--metrics")
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}
	for _, want := range []string{
		"Retrieved 3 games from 1 archives for player1 (2024/01 to 2024/01)",
		"Converted 2 boards",
		"--- Piece Count Analyzer ---",
		"Total boards analyzed: 2",
		"Average pieces per position: 17.5",
		"Skipped 1 games:",
		"cache_writes_total",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "archives", "player1", "--cache-dir", dir, "--codec", "gzip")
	if err != nil {
		t.Fatalf("archives error = %v", err)
	}
	if !strings.Contains(out, "2024/01") || !strings.Contains(out, "1 archives") {
		t.Errorf("archives output:\n%s", out)
	}

	out, err = execute(t, "cache", "stats", "--cache-dir", dir, "--codec", "gzip")
	if err != nil {
		t.Fatalf("cache stats error = %v", err)
	}
	if !strings.Contains(out, "Total:") || !strings.Contains(out, "2 entries") {
		t.Errorf("cache stats output:\n%s", out)
	}

	out, err = execute(t, "cache", "verify", "--cache-dir", dir, "--codec", "gzip")
	if err != nil {
		t.Fatalf("cache verify error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "All entries OK.") {
		t.Errorf("cache verify output:\n%s", out)
	}

	// Corrupt the month entry: verify reports it.
	path := filepath.Join(dir, "games", "player1-2024-01.json.gz")
	if err := os.WriteFile(path, []byte("not gzip"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "cache", "verify", "--cache-dir", dir, "--codec", "gzip")
	if err == nil {
		t.Errorf("cache verify succeeded on a corrupt entry:\n%s", out)
	}
	if !strings.Contains(out, "ERROR:") {
		t.Errorf("cache verify output:\n%s", out)
	}
}

func TestRun_InvalidMonth(t *testing.T) {
	_, err := execute(t, "run", "player1", "--from", "2024/13")
	if err == nil || !strings.Contains(err.Error(), "--from") {
		t.Errorf("error = %v, want --from error", err)
	}
}

func TestPrintReport(t *testing.T) {
	loc, _ := archive.ParseLocator("https://api.test/player/p/games/2024/02")
	report := &insight.Report{
		Username: "p",
		Start:    archive.Month{Year: 2024, Month: 1},
		End:      archive.Month{Year: 2024, Month: 2},
		Retrieval: &retrieve.Result{
			Failures: []retrieve.Failure{{Locator: loc, Err: errors.New("boom")}},
		},
		ConversionFailures: []board.Failure{{Index: 3, URL: "g3", Err: &board.MissingFieldError{Field: "fen"}}},
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()

	for _, want := range []string{
		"Retrieved 0 games from 0 archives for p (2024/01 to 2024/02)",
		"Skipped 1 archives:",
		"https://api.test/player/p/games/2024/02: boom",
		"game 3 (g3)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintMetrics(t *testing.T) {
	var buf bytes.Buffer
	printMetrics(&buf, stats.NewNoop())
	if !strings.Contains(buf.String(), "not available") {
		t.Errorf("noop output = %q", buf.String())
	}

	c := logger.New(nil)
	c.IncCounter(stats.MetricCacheHits, 2)
	c.IncCounter(stats.MetricArchiveFetches, 1)

	buf.Reset()
	printMetrics(&buf, c)
	out := buf.String()
	if strings.Index(out, "archive_fetches_total") > strings.Index(out, "cache_hits_total") {
		t.Errorf("metrics not sorted:\n%s", out)
	}
}

func TestPrintCacheStats(t *testing.T) {
	entries := []diskstore.Entry{
		{Key: store.NewKey(store.SpaceArchives, "a"), Size: 100},
		{Key: store.NewKey(store.SpaceGames, "a-2024-01"), Size: 2048},
		{Key: store.NewKey(store.SpaceGames, "a-2024-02"), Size: 2048},
	}

	var buf bytes.Buffer
	printCacheStats(&buf, "/cache", entries)
	out := buf.String()

	for _, want := range []string{
		"Cache directory: /cache",
		"archives:        1 entries, 100 B",
		"games:           2 entries, 4.0 KB",
		"Total:           3 entries, 4.1 KB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 << 20, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
