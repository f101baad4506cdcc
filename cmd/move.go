package cmd

import (
	"context"
	"fmt"
	"strings"

	"staffplan-cli/schedule"

	"github.com/spf13/cobra"
)

func moveCmd() *cobra.Command {
	var date string
	var timeValue string
	var asCopy bool

	cmd := &cobra.Command{
		Use:   "move <booking-id>",
		Short: "Move or copy a booking to a new time",
		Long: `Move a booking to a new start time, keeping its duration, resource,
project and description. --copy leaves the original in place and books a
duplicate at the new time instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if date == "" || timeValue == "" {
				return fmt.Errorf("--date and --time are required")
			}
			targetDate, err := parseDateInput(date)
			if err != nil {
				return err
			}
			clock, err := parseClock(timeValue)
			if err != nil {
				return err
			}

			ctx := context.Background()
			planner, err := loadPlanner(ctx)
			if err != nil {
				return err
			}

			original, ok := planner.BookingByID(id)
			if !ok {
				return fmt.Errorf("booking %q not found", id)
			}
			newStart := combineDateClock(targetDate, clock)
			newEnd := newStart.Add(original.End.Sub(original.Start))

			var result schedule.Booking
			if asCopy {
				result, err = planner.Copy(ctx, id, newStart, newEnd)
			} else {
				result, err = planner.Move(ctx, id, newStart, newEnd)
			}
			if err != nil {
				return err
			}

			snapshotCache(planner)

			if outputJSON {
				return writeJSON(result)
			}
			verb := "Moved"
			if asCopy {
				verb = "Copied"
			}
			fmt.Printf("%s booking to %s %s-%s (%s).\n", verb,
				result.Start.Format("2006-01-02"),
				result.Start.Format("15:04"),
				result.End.Format("15:04"),
				result.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVar(&timeValue, "time", "", "New start time (HH:MM)")
	cmd.Flags().BoolVar(&asCopy, "copy", false, "Keep the original and book a duplicate")
	return cmd
}
