package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <gate-id>",
	Short:   "Show gate details",
	GroupID: "gates",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseGateID(args[0])
		if err != nil {
			return err
		}

		gate, err := tollClient.GetGate(context.Background(), id)
		if err != nil {
			return fmt.Errorf("fetching gate: %w", err)
		}

		if jsonOutput {
			printJSON(gate)
		} else {
			printGateTable(gate)
		}
		return nil
	},
}

func parseGateID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid gate id %q", s)
	}
	return id, nil
}
