package main

import (
	"context"
	"fmt"

	"github.com/groblegark/tollgate/internal/client"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List gates",
	GroupID: "gates",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		beneficiary, _ := cmd.Flags().GetString("beneficiary")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		resp, err := tollClient.ListGates(context.Background(), &client.ListGatesRequest{
			Beneficiary: beneficiary,
			Limit:       limit,
			Offset:      offset,
		})
		if err != nil {
			return fmt.Errorf("listing gates: %w", err)
		}

		if jsonOutput {
			printJSON(resp.Gates)
		} else {
			printGateListTable(resp.Gates, resp.Total)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().String("beneficiary", "", "filter by beneficiary account")
	listCmd.Flags().Int("limit", 50, "maximum gates to return")
	listCmd.Flags().Int("offset", 0, "pagination offset")
}
