// Package material reports the material balance of the analyzed positions.
package material

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
	"gonum.org/v1/gonum/stat"

	"github.com/discochess/insight/internal/analysis"
	"github.com/discochess/insight/internal/board"
)

// Name is the analyzer name.
const Name = "Material Balance Analyzer"

// Analyzer averages each side's material in pawn units and counts which
// side was ahead.
type Analyzer struct{}

var _ analysis.Analyzer = (*Analyzer)(nil)

// New creates a material balance analyzer.
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
			Description: "Material Balance Analysis:\n- Total boards analyzed: 0\n- No boards to analyze",
		}
	}

	white := make([]float64, len(boards))
	black := make([]float64, len(boards))
	balance := make([]float64, len(boards))
	var whiteAhead, blackAhead, level int
	for i, b := range boards {
		white[i] = float64(b.Material(chess.White))
		black[i] = float64(b.Material(chess.Black))
		balance[i] = white[i] - black[i]
		switch {
		case balance[i] > 0:
			whiteAhead++
		case balance[i] < 0:
			blackAhead++
		default:
			level++
		}
	}

	var sb strings.Builder
	sb.WriteString("Material Balance Analysis:\n")
	fmt.Fprintf(&sb, "- Total boards analyzed: %d\n", len(boards))
	fmt.Fprintf(&sb, "- Average white material: %.1f\n", stat.Mean(white, nil))
	fmt.Fprintf(&sb, "- Average black material: %.1f\n", stat.Mean(black, nil))
	fmt.Fprintf(&sb, "- Average balance (white - black): %+.1f\n", stat.Mean(balance, nil))
	fmt.Fprintf(&sb, "- White ahead: %d, black ahead: %d, level: %d", whiteAhead, blackAhead, level)

	return analysis.Result{Analyzer: Name, Description: sb.String()}
}
