package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var archivesCmd = &cobra.Command{
	Use:   "archives USERNAME",
	Short: "List the months a player has game archives for",
	Long: `List the monthly archives chess.com publishes for USERNAME, oldest
first. The listing is cached like every other payload, so months added after
the first listing only show up once the cache entry is removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchives,
}

var showURLs bool

func init() {
	archivesCmd.Flags().BoolVar(&showURLs, "urls", false, "print each archive's URL")
	rootCmd.AddCommand(archivesCmd)
}

func runArchives(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	client, err := e.newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	locs, err := client.Archives(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, loc := range locs {
		if showURLs {
			fmt.Fprintln(out, loc)
		} else {
			fmt.Fprintln(out, loc.Month)
		}
	}
	fmt.Fprintf(out, "%d archives\n", len(locs))
	return nil
}
