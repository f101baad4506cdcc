package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func resizeCmd() *cobra.Command {
	var startValue string
	var endValue string
	var hours float64

	cmd := &cobra.Command{
		Use:   "resize <booking-id>",
		Short: "Change a booking's time range in place",
		Long: `Resize a booking on its current date. Give --start and/or --end as HH:MM,
or --hours to keep the start and stretch the end. The duration is rederived
from the new range and persisted immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if startValue == "" && endValue == "" && hours <= 0 {
				return fmt.Errorf("one of --start, --end or --hours is required")
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

			newStart := original.Start
			newEnd := original.End
			if startValue != "" {
				clock, err := parseClock(startValue)
				if err != nil {
					return err
				}
				newStart = combineDateClock(original.Start, clock)
			}
			switch {
			case hours > 0:
				newEnd = newStart.Add(time.Duration(hours * float64(time.Hour)))
			case endValue != "":
				clock, err := parseClock(endValue)
				if err != nil {
					return err
				}
				newEnd = combineDateClock(original.Start, clock)
			case startValue != "":
				// Start moved without a new end: keep the duration.
				newEnd = newStart.Add(original.End.Sub(original.Start))
			}

			resized, err := planner.Resize(ctx, id, newStart, newEnd)
			if err != nil {
				// The local view already carries the new range; the persist
				// failed, so the server may still hold the old one.
				return fmt.Errorf("%w (the calendar may be out of sync, run 'staffplan sync')", err)
			}

			snapshotCache(planner)

			if outputJSON {
				return writeJSON(resized)
			}
			fmt.Printf("Resized booking to %s-%s (%.1fh).\n",
				resized.Start.Format("15:04"), resized.End.Format("15:04"), resized.Hours)
			return nil
		},
	}

	cmd.Flags().StringVar(&startValue, "start", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&endValue, "end", "", "New end time (HH:MM)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "New duration in hours, keeping the start")
	return cmd
}
