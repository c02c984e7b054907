package board

import (
	"errors"
	"testing"

	"github.com/notnil/chess"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/discochess/insight/internal/archive"
)

const (
	startFEN  = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	kingsFEN  = "8/8/8/4k3/8/8/8/4K3 b - - 0 60"
	rookUpFEN = "4k3/8/8/8/8/8/8/R3K3 w - - 0 40"
)

func game(fields map[string]string) archive.Game {
	g := archive.Game{}
	for k, v := range fields {
		g[k] = []byte(`"` + v + `"`)
	}
	return g
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		wantCount int
		wantTurn  chess.Color
	}{
		{"starting position", startFEN, 32, chess.White},
		{"bare kings", kingsFEN, 2, chess.Black},
		{"rook up", rookUpFEN, 3, chess.White},
		{"surrounding space", "  " + startFEN + "\n", 32, chess.White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Parse(tt.fen)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := b.PieceCount(); got != tt.wantCount {
				t.Errorf("PieceCount() = %d, want %d", got, tt.wantCount)
			}
			if got := b.Turn(); got != tt.wantTurn {
				t.Errorf("Turn() = %v, want %v", got, tt.wantTurn)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, fen := range []string{
		"not a fen",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
	} {
		t.Run(fen, func(t *testing.T) {
			_, err := Parse(fen)
			var invalid *InvalidEncodingError
			if !errors.As(err, &invalid) {
				t.Fatalf("Parse() error = %v, want InvalidEncodingError", err)
			}
			if invalid.FEN != fen {
				t.Errorf("FEN = %q, want %q", invalid.FEN, fen)
			}
			if invalid.Err == nil {
				t.Errorf("parser error not carried")
			}
		})
	}
}

func TestBoard_Material(t *testing.T) {
	start, err := Parse(startFEN)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []chess.Color{chess.White, chess.Black} {
		if got := start.Material(c); got != 39 {
			t.Errorf("start Material(%v) = %d, want 39", c, got)
		}
		if got := start.PieceCountFor(c); got != 16 {
			t.Errorf("start PieceCountFor(%v) = %d, want 16", c, got)
		}
	}

	rookUp, err := Parse(rookUpFEN)
	if err != nil {
		t.Fatal(err)
	}
	if got := rookUp.Material(chess.White); got != 5 {
		t.Errorf("Material(White) = %d, want 5", got)
	}
	if got := rookUp.Material(chess.Black); got != 0 {
		t.Errorf("Material(Black) = %d, want 0", got)
	}
	if got := rookUp.FEN(); got != rookUpFEN {
		t.Errorf("FEN() = %q, want %q", got, rookUpFEN)
	}
}

func TestConvert(t *testing.T) {
	b, err := Convert(game(map[string]string{"fen": startFEN, "url": "https://www.chess.com/game/live/1"}))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if b.PieceCount() != 32 {
		t.Errorf("PieceCount() = %d, want 32", b.PieceCount())
	}
}

func TestConvert_MissingField(t *testing.T) {
	tests := []struct {
		name string
		g    archive.Game
	}{
		{"absent", game(map[string]string{"pgn": "1. e4"})},
		{"empty", game(map[string]string{"fen": ""})},
		{"blank", game(map[string]string{"fen": "   "})},
		{"not a string", archive.Game{"fen": []byte(`42`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(tt.g)
			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("Convert() error = %v, want MissingFieldError", err)
			}
			if missing.Field != "fen" {
				t.Errorf("Field = %q, want fen", missing.Field)
			}
		})
	}
}

func TestConvertAll(t *testing.T) {
	games := []archive.Game{
		game(map[string]string{"fen": startFEN, "url": "g0"}),
		game(map[string]string{"url": "g1"}),
		game(map[string]string{"fen": "garbage", "url": "g2"}),
		game(map[string]string{"fen": kingsFEN, "url": "g3"}),
	}

	core, logs := observer.New(zap.WarnLevel)
	boards, failures := ConvertAll(games, WithLogger(zap.New(core)))

	if len(boards) != 2 {
		t.Fatalf("got %d boards, want 2", len(boards))
	}
	if boards[0].PieceCount() != 32 || boards[1].PieceCount() != 2 {
		t.Errorf("boards out of order")
	}

	if len(failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(failures))
	}
	if failures[0].Index != 1 || failures[0].URL != "g1" {
		t.Errorf("failures[0] = %+v", failures[0])
	}
	var invalid *InvalidEncodingError
	if failures[1].Index != 2 || !errors.As(failures[1], &invalid) {
		t.Errorf("failures[1] = %+v, want InvalidEncodingError", failures[1])
	}
	if logs.FilterMessage("skipping game").Len() != 2 {
		t.Errorf("expected two skip warnings")
	}
}

func TestConvertAll_Empty(t *testing.T) {
	boards, failures := ConvertAll(nil)
	if len(boards) != 0 || len(failures) != 0 {
		t.Errorf("ConvertAll(nil) = %v, %v", boards, failures)
	}
}
