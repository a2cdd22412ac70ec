package client

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// TargetResponse represents a target in API responses.
type TargetResponse struct {
	UserID     string  `json:"user_id"`
	TargetKcal float64 `json:"target_kcal"`
}

// TargetCmd creates the target command with set/get subcommands.
func TargetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Manage the daily calorie target",
	}

	cmd.AddCommand(targetSetCmd())
	cmd.AddCommand(targetGetCmd())

	return cmd
}

func targetSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <calories>",
		Short: "Set the daily calorie target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kcal, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("calories must be a number: %q", args[0])
			}

			userID, err := ResolveUserID(cmd)
			if err != nil {
				return err
			}

			api, err := NewAPIClient()
			if err != nil {
				return err
			}

			if _, err := api.Put(fmt.Sprintf("/users/%s/target", userID),
				map[string]float64{"target_kcal": kcal}); err != nil {
				return err
			}

			fmt.Printf("Daily target set to %.0f kcal\n", kcal)
			return nil
		},
	}
}

func targetGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the daily calorie target",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ResolveUserID(cmd)
			if err != nil {
				return err
			}

			api, err := NewAPIClient()
			if err != nil {
				return err
			}

			resp, err := api.Get(fmt.Sprintf("/users/%s/target", userID))
			if err != nil {
				return err
			}

			var target TargetResponse
			if err := json.Unmarshal(resp.Data, &target); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("Daily target: %.0f kcal\n", target.TargetKcal)
			return nil
		},
	}
}
