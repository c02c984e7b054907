// Package sidetomove reports which side was to move in the final positions.
package sidetomove

import (
	"fmt"

	"github.com/notnil/chess"

	"github.com/discochess/insight/internal/analysis"
	"github.com/discochess/insight/internal/board"
)

// Name is the analyzer name.
const Name = "Side To Move Analyzer"

// Analyzer counts final positions by side to move.
type Analyzer struct{}

var _ analysis.Analyzer = (*Analyzer)(nil)

// New creates a side to move analyzer.
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
			Description: "Side To Move Analysis:\n- Total boards analyzed: 0\n- No boards to analyze",
		}
	}

	var white, black int
	for _, b := range boards {
		if b.Turn() == chess.White {
			white++
		} else {
			black++
		}
	}

	pct := func(n int) float64 { return float64(n) / float64(len(boards)) * 100 }
	desc := fmt.Sprintf("Side To Move Analysis:\n- Total boards analyzed: %d\n- White to move: %d (%.1f%%)\n- Black to move: %d (%.1f%%)",
		len(boards), white, pct(white), black, pct(black))
	return analysis.Result{Analyzer: Name, Description: desc}
}
