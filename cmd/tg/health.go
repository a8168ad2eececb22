package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check server health",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tollClient.Health(context.Background()); err != nil {
			return fmt.Errorf("server unhealthy: %w", err)
		}
		fmt.Println("ok")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show registry statistics",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := tollClient.GetStats(context.Background())
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}
		if jsonOutput {
			printJSON(stats)
		} else {
			printStatsTable(stats)
		}
		return nil
	},
}
