package client

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// DeleteCmd creates the delete command.
func DeleteCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "delete <position>",
		Short: "Delete one ledger entry by its position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("position must be a number: %q", args[0])
			}
			return runDelete(cmd, position, date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to delete from (YYYY-MM-DD, default today)")

	return cmd
}

func runDelete(cmd *cobra.Command, position int, date string) error {
	userID, err := ResolveUserID(cmd)
	if err != nil {
		return err
	}

	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/users/%s/entries/%d", userID, position)
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}

	if _, err := api.Delete(path); err != nil {
		return err
	}

	fmt.Printf("Deleted entry #%d\n", position)
	return nil
}

// ClearCmd creates the clear command.
func ClearCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry of a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd, date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to clear (YYYY-MM-DD, default today)")

	return cmd
}

func runClear(cmd *cobra.Command, date string) error {
	userID, err := ResolveUserID(cmd)
	if err != nil {
		return err
	}

	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/users/%s/day", userID)
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}

	if _, err := api.Delete(path); err != nil {
		return err
	}

	fmt.Println("Day cleared")
	return nil
}
