package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/discochess/insight"
	"github.com/discochess/insight/internal/stats"
)

func printReport(w io.Writer, r *insight.Report) {
	fmt.Fprintf(w, "Retrieved %d games from %d archives for %s (%s to %s)\n",
		len(r.Retrieval.Games), len(r.Retrieval.Fetched), r.Username, r.Start, r.End)
	fmt.Fprintf(w, "Converted %d boards\n", r.Boards)

	for _, res := range r.Results {
		fmt.Fprintf(w, "\n--- %s ---\n", res.Analyzer)
		fmt.Fprintln(w, res)
	}

	if len(r.Retrieval.Failures) > 0 {
		fmt.Fprintf(w, "\nSkipped %d archives:\n", len(r.Retrieval.Failures))
		for _, f := range r.Retrieval.Failures {
			fmt.Fprintf(w, "  %s: %v\n", f.Locator.URL, f.Err)
		}
	}
	if len(r.ConversionFailures) > 0 {
		fmt.Fprintf(w, "\nSkipped %d games:\n", len(r.ConversionFailures))
		for _, f := range r.ConversionFailures {
			fmt.Fprintf(w, "  %v\n", f)
		}
	}
}

// printMetrics prints every metric the collector has seen, sorted by name.
// Collectors that cannot report values are skipped.
func printMetrics(w io.Writer, c stats.Collector) {
	snap, ok := c.(stats.Snapshotter)
	if !ok {
		fmt.Fprintln(w, "\nMetrics: not available with the none backend (use --stats log)")
		return
	}

	values := snap.Snapshot()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Fprintln(w, "\nMetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-40s %g\n", strings.TrimPrefix(name, "insight_"), values[name])
	}
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
