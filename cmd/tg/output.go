package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/groblegark/tollgate/internal/model"
	"github.com/groblegark/tollgate/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printGateTable(gate *model.Gate) {
	fmt.Printf("ID:            %d\n", gate.ID)
	fmt.Printf("Beneficiary:   %s\n", gate.Beneficiary)
	fmt.Printf("Price Floor:   %d\n", gate.PriceFloor)
	fmt.Printf("Decay Rate:    %d/tick\n", gate.DecayRate)
	fmt.Printf("Increase:      %d/%d\n", gate.IncreaseNumerator, gate.IncreaseDenominator)
	fmt.Printf("Last Price:    %d\n", gate.LastPrice)
	fmt.Printf("Last Tick:     %d\n", gate.LastTick)
	if gate.CreatedBy != "" {
		fmt.Printf("Created By:    %s\n", gate.CreatedBy)
	}
	if !gate.CreatedAt.IsZero() {
		fmt.Printf("Created At:    %s\n", gate.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printGateListTable(gates []*model.Gate, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBENEFICIARY\tFLOOR\tDECAY\tINCREASE\tLAST PRICE")
	for _, g := range gates {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d/%d\t%d\n",
			g.ID,
			g.Beneficiary,
			g.PriceFloor,
			g.DecayRate,
			g.IncreaseNumerator,
			g.IncreaseDenominator,
			g.LastPrice,
		)
	}
	w.Flush()
	fmt.Printf("\n%d gates (%d total)\n", len(gates), total)
}

func printPassageTable(p *model.Passage) {
	fmt.Printf("Receipt:       %s\n", ui.RenderAccent(p.ID))
	fmt.Printf("Gate:          %d\n", p.GateID)
	if p.Payer != "" {
		fmt.Printf("Payer:         %s\n", p.Payer)
	}
	fmt.Printf("Beneficiary:   %s\n", p.Beneficiary)
	fmt.Printf("Cost:          %d\n", p.Cost)
	fmt.Printf("Payment:       %d\n", p.Payment)
	fmt.Printf("Next Price:    %d\n", p.NextPrice)
	fmt.Printf("Tick:          %d\n", p.Tick)
}

func printPassageListTable(passages []*model.Passage) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RECEIPT\tGATE\tPAYER\tCOST\tPAYMENT\tNEXT PRICE\tTICK")
	for _, p := range passages {
		payer := p.Payer
		if payer == "" {
			payer = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%d\t%d\n",
			p.ID, p.GateID, payer, p.Cost, p.Payment, p.NextPrice, p.Tick)
	}
	w.Flush()
	fmt.Printf("\n%d passages\n", len(passages))
}

func printAccountTable(a *model.Account) {
	fmt.Printf("ID:        %s\n", a.ID)
	fmt.Printf("Name:      %s\n", a.Name)
	fmt.Printf("Balance:   %d\n", a.Balance)
	if a.Frozen {
		fmt.Printf("Status:    %s\n", ui.RenderWarn("frozen"))
	} else {
		fmt.Printf("Status:    active\n")
	}
	if !a.CreatedAt.IsZero() {
		fmt.Printf("Created:   %s\n", a.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printAccountListTable(accounts []*model.Account) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBALANCE\tSTATUS")
	for _, a := range accounts {
		status := "active"
		if a.Frozen {
			status = "frozen"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", a.ID, a.Name, a.Balance, status)
	}
	w.Flush()
	fmt.Printf("\n%d accounts\n", len(accounts))
}

func printStatsTable(s *model.Stats) {
	fmt.Printf("Gates:            %d\n", s.TotalGates)
	fmt.Printf("Accounts:         %d\n", s.TotalAccounts)
	fmt.Printf("Passages:         %d\n", s.TotalPassages)
	fmt.Printf("Volume Forwarded: %d\n", s.VolumeForwarded)
}
