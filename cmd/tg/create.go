package main

import (
	"context"
	"fmt"

	"github.com/groblegark/tollgate/internal/client"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:     "create <beneficiary>",
	Short:   "Register a new gate",
	GroupID: "gates",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		beneficiary := args[0]

		floor, _ := cmd.Flags().GetUint64("floor")
		decay, _ := cmd.Flags().GetUint64("decay")
		num, _ := cmd.Flags().GetUint64("increase-num")
		den, _ := cmd.Flags().GetUint64("increase-den")

		req := &client.CreateGateRequest{
			PriceFloor:          floor,
			DecayRate:           decay,
			IncreaseNumerator:   num,
			IncreaseDenominator: den,
			Beneficiary:         beneficiary,
			CreatedBy:           actor,
		}

		gate, err := tollClient.CreateGate(context.Background(), req)
		if err != nil {
			return fmt.Errorf("creating gate: %w", err)
		}

		if jsonOutput {
			printJSON(gate)
		} else {
			printGateTable(gate)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().Uint64("floor", 0, "price floor the cost decays toward")
	createCmd.Flags().Uint64("decay", 0, "price decay per tick")
	createCmd.Flags().Uint64("increase-num", 2, "price increase numerator")
	createCmd.Flags().Uint64("increase-den", 1, "price increase denominator")
}
