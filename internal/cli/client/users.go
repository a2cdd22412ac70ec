package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// UserStatsResponse represents the user stats API response.
type UserStatsResponse struct {
	Users int `json:"users"`
}

// UsersCmd creates the users command.
func UsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Show how many users have recorded data",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClient()
			if err != nil {
				return err
			}

			resp, err := api.Get("/stats/users")
			if err != nil {
				return err
			}

			var stats UserStatsResponse
			if err := json.Unmarshal(resp.Data, &stats); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("Total users with data: %d\n", stats.Users)
			return nil
		},
	}
}
