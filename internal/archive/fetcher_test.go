package archive_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/chesscom"
	"github.com/discochess/insight/internal/store/memstore"
)

const twoGames = `{"games":[
	{"url":"https://www.chess.com/game/live/1","fen":"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
	{"url":"https://www.chess.com/game/live/2","fen":"8/8/8/8/8/8/8/K6k w - - 0 1"}
]}`

func locator(t *testing.T, remote *fakeRemote, username string, year, month int) archive.Locator {
	t.Helper()
	loc, err := archive.ParseLocator(remote.MonthURL(username, year, month))
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

func TestFetcher_FetchArchive(t *testing.T) {
	remote := newFakeRemote()
	loc := locator(t, remote, "player1", 2024, 1)
	remote.bodies[loc.URL] = twoGames

	st := memstore.New()
	f := archive.NewFetcher(remote, st)
	ctx := context.Background()

	games, err := f.FetchArchive(ctx, "player1", loc)
	if err != nil {
		t.Fatalf("FetchArchive() error = %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if games[1].URL() != "https://www.chess.com/game/live/2" {
		t.Errorf("games[1].URL() = %q", games[1].URL())
	}

	cached, err := st.Get(ctx, archive.MonthKey("player1", loc.Month))
	if err != nil {
		t.Fatalf("cache entry missing: %v", err)
	}
	if string(cached) != twoGames {
		t.Errorf("cached payload is not verbatim")
	}

	again, err := f.FetchArchive(ctx, "player1", loc)
	if err != nil {
		t.Fatalf("second FetchArchive() error = %v", err)
	}
	if len(again) != len(games) {
		t.Errorf("second fetch returned %d games, want %d", len(again), len(games))
	}
	if got := remote.Calls(loc.URL); got != 1 {
		t.Errorf("remote calls = %d, want 1", got)
	}
}

func TestFetcher_FetchArchive_KeysByUsername(t *testing.T) {
	remote := newFakeRemote()
	a := locator(t, remote, "alice", 2024, 1)
	b := locator(t, remote, "bob", 2024, 1)
	remote.bodies[a.URL] = `{"games":[{"fen":"x"}]}`
	remote.bodies[b.URL] = `{"games":[{"fen":"y"},{"fen":"z"}]}`

	f := archive.NewFetcher(remote, memstore.New())
	ctx := context.Background()

	ga, err := f.FetchArchive(ctx, "alice", a)
	if err != nil {
		t.Fatal(err)
	}
	gb, err := f.FetchArchive(ctx, "bob", b)
	if err != nil {
		t.Fatal(err)
	}
	if len(ga) != 1 || len(gb) != 2 {
		t.Errorf("alice=%d bob=%d games, want 1 and 2", len(ga), len(gb))
	}
}

func TestFetcher_FetchArchive_EmptyMonth(t *testing.T) {
	remote := newFakeRemote()
	loc := locator(t, remote, "player1", 2024, 5)
	remote.bodies[loc.URL] = `{"games":[]}`

	games, err := archive.NewFetcher(remote, memstore.New()).FetchArchive(context.Background(), "player1", loc)
	if err != nil {
		t.Fatalf("FetchArchive() error = %v", err)
	}
	if len(games) != 0 {
		t.Errorf("got %d games, want 0", len(games))
	}
}

func TestFetcher_FetchArchive_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing games", `{"archives":[]}`},
		{"games not array", `{"games":{}}`},
		{"element not object", `{"games":["x"]}`},
		{"truncated", `{"games":[`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newFakeRemote()
			loc := locator(t, remote, "player1", 2024, 1)
			remote.bodies[loc.URL] = tt.body

			st := memstore.New()
			_, err := archive.NewFetcher(remote, st).FetchArchive(context.Background(), "player1", loc)

			var malformed *archive.MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %v, want MalformedResponseError", err)
			}
			if malformed.Field != "games" {
				t.Errorf("Field = %q, want games", malformed.Field)
			}
			if st.Len() != 0 {
				t.Errorf("malformed payload was cached")
			}
		})
	}
}

func TestFetcher_FetchArchive_RemoteFailure(t *testing.T) {
	remote := newFakeRemote()
	loc := locator(t, remote, "player1", 2024, 1)
	remote.errs[loc.URL] = fmt.Errorf("wrapped: %w", &chesscom.RemoteError{Status: 503, URL: loc.URL})

	_, err := archive.NewFetcher(remote, memstore.New()).FetchArchive(context.Background(), "player1", loc)
	var remoteErr *chesscom.RemoteError
	if !errors.As(err, &remoteErr) || remoteErr.Status != 503 {
		t.Fatalf("error = %v, want RemoteError 503", err)
	}
}
