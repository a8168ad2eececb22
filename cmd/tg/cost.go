package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var costCmd = &cobra.Command{
	Use:     "cost <gate-id>",
	Short:   "Show the current admission price of a gate",
	GroupID: "gates",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseGateID(args[0])
		if err != nil {
			return err
		}

		resp, err := tollClient.GetCost(context.Background(), id)
		if err != nil {
			return fmt.Errorf("fetching cost: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			fmt.Printf("%d\n", resp.Price)
		}
		return nil
	},
}
