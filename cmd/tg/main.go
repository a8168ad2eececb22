package main

import (
	"os"

	"github.com/groblegark/tollgate/internal/client"
	"github.com/groblegark/tollgate/internal/ui"
	"github.com/spf13/cobra"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool
	actor      string

	tollClient client.TollClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("TOLL_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("TOLL_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

func defaultActor() string {
	if s := os.Getenv("TOLL_ACTOR"); s != "" {
		return s
	}
	if s := os.Getenv("USER"); s != "" {
		return s
	}
	return "unknown"
}

var rootCmd = &cobra.Command{
	Use:   "tg <command>",
	Short: "CLI client for the Tollgate service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		tollClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tollClient != nil {
			tollClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "actor name for created_by fields")

	rootCmd.AddGroup(
		&cobra.Group{ID: "gates", Title: "Gates:"},
		&cobra.Group{ID: "accounts", Title: "Accounts:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Gates
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(costCmd)
	rootCmd.AddCommand(passCmd)
	rootCmd.AddCommand(passagesCmd)

	// Accounts
	rootCmd.AddCommand(accountCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
