package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/macrolog-ai/macrolog/internal/cli"
	"github.com/macrolog-ai/macrolog/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "macrologd",
		Short: "Macrolog daemon",
		Long:  "Macrolog daemon for running the meal tracking API server",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
