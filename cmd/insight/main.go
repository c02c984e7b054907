// Package main provides the insight CLI, which retrieves a chess.com
// player's games for a month range and prints analyzer reports.
package main

import (
	"context"
	"os"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
