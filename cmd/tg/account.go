package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:     "account",
	Short:   "Manage ledger accounts",
	GroupID: "accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a ledger account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := tollClient.CreateAccount(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("creating account: %w", err)
		}
		if jsonOutput {
			printJSON(account)
		} else {
			printAccountTable(account)
		}
		return nil
	},
}

var accountShowCmd = &cobra.Command{
	Use:   "show <account-id>",
	Short: "Show account details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := tollClient.GetAccount(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching account: %w", err)
		}
		if jsonOutput {
			printJSON(account)
		} else {
			printAccountTable(account)
		}
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := tollClient.ListAccounts(context.Background())
		if err != nil {
			return fmt.Errorf("listing accounts: %w", err)
		}
		if jsonOutput {
			printJSON(accounts)
		} else {
			printAccountListTable(accounts)
		}
		return nil
	},
}

var accountDepositCmd = &cobra.Command{
	Use:   "deposit <account-id> <amount>",
	Short: "Deposit funds into an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		account, err := tollClient.Deposit(context.Background(), args[0], amount)
		if err != nil {
			return fmt.Errorf("depositing: %w", err)
		}
		if jsonOutput {
			printJSON(account)
		} else {
			printAccountTable(account)
		}
		return nil
	},
}

var accountFreezeCmd = &cobra.Command{
	Use:   "freeze <account-id>",
	Short: "Freeze an account (blocks credits and debits)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tollClient.SetFrozen(context.Background(), args[0], true); err != nil {
			return fmt.Errorf("freezing account: %w", err)
		}
		fmt.Printf("account %s frozen\n", args[0])
		return nil
	},
}

var accountUnfreezeCmd = &cobra.Command{
	Use:   "unfreeze <account-id>",
	Short: "Unfreeze an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tollClient.SetFrozen(context.Background(), args[0], false); err != nil {
			return fmt.Errorf("unfreezing account: %w", err)
		}
		fmt.Printf("account %s unfrozen\n", args[0])
		return nil
	},
}

func init() {
	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountShowCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountDepositCmd)
	accountCmd.AddCommand(accountFreezeCmd)
	accountCmd.AddCommand(accountUnfreezeCmd)
}
