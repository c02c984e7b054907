package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/discochess/insight"
	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/store"
	"github.com/discochess/insight/internal/store/diskstore"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the on-disk cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry counts and sizes per key space",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify every cached payload",
	Long: `Verify that every cached payload can be read and decoded, and that it
holds the field the pipeline expects ("archives" for directory listings,
"games" for monthly archives).

A corrupt entry makes retrieval fail rather than refetch; delete the files
reported here to have them fetched again.`,
	Args: cobra.NoArgs,
	RunE: runCacheVerify,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheVerifyCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openDiskStore(cmd *cobra.Command) (*diskstore.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	c, err := insight.NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}
	return diskstore.New(cfg.CacheDir, c)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	st, err := openDiskStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.Entries()
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}
	printCacheStats(cmd.OutOrStdout(), st.Root(), entries)
	return nil
}

func printCacheStats(w io.Writer, root string, entries []diskstore.Entry) {
	counts := make(map[store.Space]int)
	sizes := make(map[store.Space]int64)
	var total int64
	for _, e := range entries {
		counts[e.Key.Space]++
		sizes[e.Key.Space] += e.Size
		total += e.Size
	}

	fmt.Fprintf(w, "Cache directory: %s\n", root)
	for _, space := range store.Spaces() {
		fmt.Fprintf(w, "%-15s  %d entries, %s\n", string(space)+":", counts[space], formatBytes(sizes[space]))
	}
	fmt.Fprintf(w, "%-15s  %d entries, %s\n", "Total:", len(entries), formatBytes(total))
}

func runCacheVerify(cmd *cobra.Command, args []string) error {
	st, err := openDiskStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.Entries()
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No cache entries found.")
		return nil
	}
	fmt.Fprintf(out, "Verifying %d entries...\n", len(entries))

	var errCount int
	for i, entry := range entries {
		data, err := st.Get(cmd.Context(), entry.Key)
		if err == nil {
			var n int
			n, err = archive.Verify(entry.Key, data)
			if err == nil && verbose {
				fmt.Fprintf(out, "  [%d/%d] %s: ok (%d records)\n", i+1, len(entries), entry.Key, n)
			}
		}
		if err != nil {
			fmt.Fprintf(out, "  ERROR: %s: %v\n", entry.Path, err)
			errCount++
		}
	}

	if errCount > 0 {
		return fmt.Errorf("%d of %d entries failed verification", errCount, len(entries))
	}
	fmt.Fprintln(out, "All entries OK.")
	return nil
}
