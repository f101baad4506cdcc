package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staffplan-cli/schedule"

	"github.com/spf13/cobra"
)

func bookCmd() *cobra.Command {
	var projectID string
	var typeOfWorkID string
	var description string
	var date string
	var timeValue string
	var hours float64
	var users []string
	var rows []string

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book one or more resources on a project",
		Long: `Book one or more resources on a project under a shared type of work and
task description. Every --user shares the --date/--time/--hours slot; each
--row books its own slot, written as "resourceId date HH:MM-HH:MM".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectID == "" || typeOfWorkID == "" {
				return fmt.Errorf("--project and --type are required")
			}
			if len(users) == 0 && len(rows) == 0 {
				return fmt.Errorf("at least one --user or --row is required")
			}

			draft := schedule.NewDraft()
			if err := draft.SetProject(projectID); err != nil {
				return err
			}
			draft.SetTypeOfWork(typeOfWorkID)
			draft.SetTaskDescription(description)

			if len(users) > 0 {
				if date == "" || timeValue == "" {
					return fmt.Errorf("--date and --time are required with --user")
				}
				targetDate, err := parseDateInput(date)
				if err != nil {
					return err
				}
				clock, err := parseClock(timeValue)
				if err != nil {
					return err
				}
				start := combineDateClock(targetDate, clock)
				for _, user := range users {
					if err := draft.AddRow(schedule.NewRow(strings.TrimSpace(user), start, hours)); err != nil {
						return err
					}
				}
			}
			for _, spec := range rows {
				row, err := parseRowSpec(spec, hours)
				if err != nil {
					return err
				}
				if err := draft.AddRow(row); err != nil {
					return err
				}
			}

			ctx := context.Background()
			planner, err := loadPlanner(ctx)
			if err != nil {
				return err
			}
			projects, err := client.ListProjects(ctx)
			if err != nil {
				return err
			}
			types, err := client.ListTypesOfWork(ctx)
			if err != nil {
				return err
			}

			result, err := planner.CreateFromDraft(ctx, draft, projects, types)
			if err != nil {
				var conflict *schedule.RowConflictError
				if errors.As(err, &conflict) {
					return fmt.Errorf("booking aborted, nothing was created: %s", conflict)
				}
				return err
			}

			snapshotCache(planner)

			if outputJSON {
				return writeJSON(result)
			}
			for _, created := range result.Created {
				fmt.Printf("Booked %s: %s %s-%s (%s)\n",
					created.ResourceID,
					created.Start.Format("2006-01-02"),
					created.Start.Format("15:04"),
					created.End.Format("15:04"),
					created.ID)
			}
			if result.Err != nil {
				return fmt.Errorf("batch stopped after %d booking(s): %w", len(result.Created), result.Err)
			}
			if result.RefreshErr != nil {
				fmt.Printf("Warning: could not refresh the calendar: %v\n", result.RefreshErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&typeOfWorkID, "type", "", "Type-of-work id")
	cmd.Flags().StringVar(&description, "desc", "", "Task description")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVar(&timeValue, "time", "", "Start time (HH:MM)")
	cmd.Flags().Float64Var(&hours, "hours", 1, "Duration in hours")
	cmd.Flags().StringArrayVar(&users, "user", nil, "Resource id to book at the shared slot (repeatable)")
	cmd.Flags().StringArrayVar(&rows, "row", nil, "Assignment row \"resourceId date HH:MM-HH:MM\" (repeatable)")
	return cmd
}

func parseRowSpec(spec string, defaultHours float64) (schedule.Row, error) {
	fields := strings.Fields(spec)
	if len(fields) != 3 {
		return schedule.Row{}, fmt.Errorf("invalid row %q (expected \"resourceId date HH:MM-HH:MM\")", spec)
	}
	date, err := parseDateInput(fields[1])
	if err != nil {
		return schedule.Row{}, err
	}
	start, end, err := parseTimeRange(date, fields[2])
	if err != nil {
		return schedule.Row{}, err
	}
	row := schedule.NewRow(fields[0], start, defaultHours)
	row.SetRange(start, end)
	return row, nil
}
