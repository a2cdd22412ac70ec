package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// SummaryResponse represents the day summary API response.
type SummaryResponse struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// SummaryCmd creates the summary command.
func SummaryCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a day's totals and entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to summarize (YYYY-MM-DD, default today)")

	return cmd
}

func runSummary(cmd *cobra.Command, date string) error {
	userID, err := ResolveUserID(cmd)
	if err != nil {
		return err
	}

	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/users/%s/summary", userID)
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}

	resp, err := api.Get(path)
	if err != nil {
		return err
	}

	var result SummaryResponse
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Println(result.Text)
	return nil
}
