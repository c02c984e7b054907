package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/discochess/insight"
	"github.com/discochess/insight/internal/archive"
	"github.com/discochess/insight/internal/retrieve"
)

var runCmd = &cobra.Command{
	Use:   "run USERNAME",
	Short: "Retrieve a player's games and run the analyzers",
	Long: `Retrieve every game USERNAME played from --from through --to (both
inclusive), convert each game's final position and print one report per
analyzer.

Archives that cannot be fetched and games whose position cannot be parsed
are skipped and listed after the reports.

Examples:
  insight run hikaru --from 2024/01 --to 2024/01
  insight run hikaru --from 2023/06 --to 2024/05 --progress --metrics`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var (
	fromMonth    string
	toMonth      string
	showProgress bool
	showMetrics  bool
)

func init() {
	runCmd.Flags().StringVar(&fromMonth, "from", "", "first month, YYYY/MM (required)")
	runCmd.Flags().StringVar(&toMonth, "to", "", "last month, YYYY/MM (default --from)")
	runCmd.Flags().BoolVar(&showProgress, "progress", false, "print retrieval progress to stderr")
	runCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print a metrics summary after the reports")
	_ = runCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	from, err := archive.ParseMonth(fromMonth)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to := from
	if toMonth != "" {
		if to, err = archive.ParseMonth(toMonth); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	}

	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	var opts []insight.Option
	if showProgress {
		opts = append(opts, insight.WithProgress(retrieve.NewWriterProgress(cmd.ErrOrStderr())))
	}
	client, err := e.newClient(opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, err := client.Run(ctx, args[0], from, to)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printReport(out, report)
	if showMetrics {
		printMetrics(out, e.collector)
	}
	return nil
}
