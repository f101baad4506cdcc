package cmd

import (
	"context"
	"fmt"
	"strings"

	"staffplan-cli/schedule"

	"github.com/spf13/cobra"
)

func editCmd() *cobra.Command {
	var typeOfWorkID string
	var description string

	cmd := &cobra.Command{
		Use:   "edit <booking-id>",
		Short: "Edit a booking's type of work or task description",
		Long: `Edit a booking in place. Only the type of work and the task description
can change on an existing booking; rebooking a different resource, project or
time is done with 'move' or by deleting and booking again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			ctx := context.Background()

			session, err := requireSession()
			if err != nil {
				return err
			}

			draft, err := schedule.LoadBookingDraft(ctx, client, id)
			if err != nil {
				return err
			}

			if typeOfWorkID == "" && description == "" {
				// Nothing to change: show the booking instead.
				if outputJSON {
					return writeJSON(draftView(draft))
				}
				row := draft.Rows()[0]
				fmt.Printf("Booking %s\n", draft.BookingID())
				fmt.Printf("  Resource: %s\n", row.ResourceID)
				fmt.Printf("  When:     %s %s-%s (%.1fh)\n",
					row.Start().Format("2006-01-02"), row.Start().Format("15:04"),
					row.End().Format("15:04"), row.Hours())
				fmt.Printf("  Project:  %s\n", draft.ProjectID)
				fmt.Printf("  Type:     %s\n", draft.TypeOfWorkID)
				fmt.Printf("  Task:     %s\n", draft.TaskDescription)
				return nil
			}

			if typeOfWorkID != "" {
				draft.SetTypeOfWork(typeOfWorkID)
			}
			if description != "" {
				draft.SetTaskDescription(description)
			}

			saved, err := schedule.SaveEdit(ctx, client, draft)
			if err != nil {
				return err
			}

			// Refresh the planner so the snapshot reflects server truth.
			planner := schedule.NewPlanner(client, session)
			if err := planner.Load(ctx); err == nil {
				snapshotCache(planner)
			}

			if outputJSON {
				return writeJSON(saved)
			}
			fmt.Printf("Updated booking %s.\n", saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeOfWorkID, "type", "", "New type-of-work id")
	cmd.Flags().StringVar(&description, "desc", "", "New task description")
	return cmd
}

func draftView(draft *schedule.Draft) map[string]any {
	row := draft.Rows()[0]
	return map[string]any{
		"id":               draft.BookingID(),
		"resource_id":      row.ResourceID,
		"start":            row.Start(),
		"end":              row.End(),
		"hours":            row.Hours(),
		"project_id":       draft.ProjectID,
		"type_of_work":     draft.TypeOfWorkID,
		"task_description": draft.TaskDescription,
	}
}
