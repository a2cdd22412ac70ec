package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NoteResponse represents a note in API responses.
type NoteResponse struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Name string `json:"name"`
}

// NoteCmd creates the note command with add/list/delete subcommands.
func NoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage the shared nutrition notes",
		Long: `Manage the shared nutrition notes that ground meal logging.

A note's name is everything before the first comma, so keep the food
name first: "gnc wafer protein bar, 1 pcs, 220 kcal".`,
	}

	cmd.AddCommand(noteAddCmd())
	cmd.AddCommand(noteListCmd())
	cmd.AddCommand(noteDeleteCmd())

	return cmd
}

func noteAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a nutrition note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClient()
			if err != nil {
				return err
			}

			resp, err := api.Post("/notes", map[string]string{"text": strings.Join(args, " ")})
			if err != nil {
				return err
			}

			var note NoteResponse
			if err := json.Unmarshal(resp.Data, &note); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("Added note #%d: %s\n", note.ID, note.Text)
			return nil
		},
	}
}

func noteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all nutrition notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClient()
			if err != nil {
				return err
			}

			resp, err := api.Get("/notes/")
			if err != nil {
				return err
			}

			var notes []NoteResponse
			if err := json.Unmarshal(resp.Data, &notes); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if len(notes) == 0 {
				fmt.Println("No notes yet")
				return nil
			}
			for _, note := range notes {
				fmt.Printf("#%d: %s\n", note.ID, note.Text)
			}
			return nil
		},
	}
}

func noteDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a nutrition note by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("id must be a number: %q", args[0])
			}

			api, err := NewAPIClient()
			if err != nil {
				return err
			}

			if _, err := api.Delete(fmt.Sprintf("/notes/%d", id)); err != nil {
				return err
			}

			fmt.Printf("Deleted note #%d\n", id)
			return nil
		},
	}
}
