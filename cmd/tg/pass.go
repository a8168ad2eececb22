package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var passCmd = &cobra.Command{
	Use:     "pass <gate-id> <payment>",
	Short:   "Pay a gate's price and pass through",
	GroupID: "gates",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseGateID(args[0])
		if err != nil {
			return err
		}
		payment, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid payment %q", args[1])
		}
		payer, _ := cmd.Flags().GetString("payer")

		passage, err := tollClient.PassThrough(context.Background(), id, payer, payment)
		if err != nil {
			return fmt.Errorf("passing gate %d: %w", id, err)
		}

		if jsonOutput {
			printJSON(passage)
		} else {
			printPassageTable(passage)
		}
		return nil
	},
}

var passagesCmd = &cobra.Command{
	Use:     "passages <gate-id>",
	Short:   "List recent passages through a gate",
	GroupID: "gates",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseGateID(args[0])
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		passages, err := tollClient.ListPassages(context.Background(), id, limit)
		if err != nil {
			return fmt.Errorf("listing passages: %w", err)
		}

		if jsonOutput {
			printJSON(passages)
		} else {
			printPassageListTable(passages)
		}
		return nil
	},
}

func init() {
	passCmd.Flags().String("payer", "", "ledger account to debit (empty = settled externally)")
	passagesCmd.Flags().Int("limit", 50, "maximum passages to return")
}
