// Package piececount reports how many pieces the analyzed positions hold.
package piececount

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/discochess/insight/internal/analysis"
	"github.com/discochess/insight/internal/board"
)

// Name is the analyzer name.
const Name = "Piece Count Analyzer"

// Analyzer averages the number of pieces per position.
type Analyzer struct{}

var _ analysis.Analyzer = (*Analyzer)(nil)

// New creates a piece count analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Name() string {
	return Name
}

func (a *Analyzer) Analyze(boards []*board.Board) analysis.Result {
	if len(boards) == 0 {
		return analysis.Result{
			Analyzer:    Name,
			Description: "Piece Count Analysis:\n- Total boards analyzed: 0\n- No boards to analyze",
		}
	}

	counts := make([]float64, len(boards))
	for i, b := range boards {
		counts[i] = float64(b.PieceCount())
	}

	desc := fmt.Sprintf("Piece Count Analysis:\n- Total boards analyzed: %d\n- Average pieces per position: %.1f",
		len(boards), stat.Mean(counts, nil))
	return analysis.Result{Analyzer: Name, Description: desc}
}
