// Package board converts archived games into parsed chess positions.
package board

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// MissingFieldError reports a game record without a usable position field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("board: game has no %q field", e.Field)
}

// InvalidEncodingError reports a position string the parser rejected.
type InvalidEncodingError struct {
	FEN string
	Err error
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("board: invalid FEN %q: %v", e.FEN, e.Err)
}

func (e *InvalidEncodingError) Unwrap() error {
	return e.Err
}

// Piece values in pawn units. Kings carry no material value.
var pieceValues = map[chess.PieceType]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

// Board is a parsed chess position. It is immutable once created.
type Board struct {
	fen string
	pos *chess.Position
}

// Parse parses a position in Forsyth-Edwards Notation.
func Parse(fen string) (*Board, error) {
	fen = strings.TrimSpace(fen)
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, &InvalidEncodingError{FEN: fen, Err: err}
	}
	return &Board{fen: fen, pos: chess.NewGame(opt).Position()}, nil
}

// FEN returns the position string the board was parsed from.
func (b *Board) FEN() string {
	return b.fen
}

// Position returns the underlying position.
func (b *Board) Position() *chess.Position {
	return b.pos
}

// Turn returns the side to move.
func (b *Board) Turn() chess.Color {
	return b.pos.Turn()
}

// Pieces returns every occupied square and its piece.
func (b *Board) Pieces() map[chess.Square]chess.Piece {
	return b.pos.Board().SquareMap()
}

// PieceCount returns the number of pieces on the board, kings included.
func (b *Board) PieceCount() int {
	return len(b.Pieces())
}

// PieceCountFor returns the number of pieces c has on the board.
func (b *Board) PieceCountFor(c chess.Color) int {
	n := 0
	for _, p := range b.Pieces() {
		if p.Color() == c {
			n++
		}
	}
	return n
}

// Material returns c's material in pawn units (P=1, N=B=3, R=5, Q=9).
func (b *Board) Material(c chess.Color) int {
	total := 0
	for _, p := range b.Pieces() {
		if p.Color() == c {
			total += pieceValues[p.Type()]
		}
	}
	return total
}
