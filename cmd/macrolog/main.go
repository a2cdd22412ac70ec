package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/macrolog-ai/macrolog/internal/cli"
	"github.com/macrolog-ai/macrolog/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "macrolog",
		Short: "Macrolog CLI - meal and calorie tracking",
		Long: `Macrolog CLI provides commands to log meals, review daily totals,
and manage nutrition notes and calorie targets.

Environment variables:
  MACROLOG_API_URL   API base URL (default: http://localhost:8080)
  MACROLOG_USER_ID   User identifier used for meal and target commands`,
		Version: version,
	}

	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	rootCmd.PersistentFlags().String("user", "", "User identifier (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.LogCmd())
	rootCmd.AddCommand(client.SummaryCmd())
	rootCmd.AddCommand(client.DeleteCmd())
	rootCmd.AddCommand(client.ClearCmd())
	rootCmd.AddCommand(client.NoteCmd())
	rootCmd.AddCommand(client.TargetCmd())
	rootCmd.AddCommand(client.UsersCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
