package retrieve

import (
	"fmt"
	"io"

	"github.com/discochess/insight/internal/archive"
)

// Phase names a step of a retrieval.
type Phase string

const (
	PhaseList  Phase = "list"
	PhaseFetch Phase = "fetch"
	PhaseDone  Phase = "done"
)

// Progress describes retrieval progress after each step.
type Progress struct {
	Phase    Phase
	Username string
	Locator  archive.Locator // archive just processed, PhaseFetch only
	Done     int             // archives processed so far
	Total    int             // archives in range
	Games    int             // games collected so far
	Failed   int             // archives that failed so far
	Err      error           // failure of the archive just processed
}

// ProgressFunc is called after every archive is processed.
type ProgressFunc func(Progress)

// NewWriterProgress returns a ProgressFunc printing one line per step to w.
func NewWriterProgress(w io.Writer) ProgressFunc {
	return func(p Progress) {
		switch p.Phase {
		case PhaseList:
			fmt.Fprintf(w, "[List] %s: %d archives in range\n", p.Username, p.Total)
		case PhaseFetch:
			if p.Err != nil {
				fmt.Fprintf(w, "[Fetch] %d/%d %s failed: %v\n", p.Done, p.Total, p.Locator.Month, p.Err)
				return
			}
			fmt.Fprintf(w, "[Fetch] %d/%d %s, %d games so far\n", p.Done, p.Total, p.Locator.Month, p.Games)
		case PhaseDone:
			fmt.Fprintf(w, "[Done] %d games from %d archives, %d failed\n", p.Games, p.Done-p.Failed, p.Failed)
		}
	}
}
