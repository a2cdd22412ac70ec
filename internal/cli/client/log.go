package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// LogMealRequest represents the log meal API request.
type LogMealRequest struct {
	Text string `json:"text"`
	Date string `json:"date,omitempty"`
}

// LogMealResponse represents the log meal API response.
type LogMealResponse struct {
	NoFood bool   `json:"no_food"`
	Reply  string `json:"reply"`
}

// LogCmd creates the log command.
func LogCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "log <meal description>",
		Short: "Log a meal in free text",
		Long: `Log a meal described in free text. The text is normalized into
food records and appended to the day's ledger.

Examples:
  macrolog log "2 eggs and a cup of rice"
  macrolog log --date 2025-06-01 "protein bar"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, strings.Join(args, " "), date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to log to (YYYY-MM-DD, default today)")

	return cmd
}

func runLog(cmd *cobra.Command, text, date string) error {
	userID, err := ResolveUserID(cmd)
	if err != nil {
		return err
	}

	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Post(fmt.Sprintf("/users/%s/meals", userID), LogMealRequest{
		Text: text,
		Date: date,
	})
	if err != nil {
		return err
	}

	var result LogMealResponse
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Println(result.Reply)
	return nil
}
