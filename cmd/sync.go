package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Snapshot the calendar into the local cache",
		Long: `Fetch the company's resources and bookings and replace the local
snapshot used by '--cached' views.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, err := loadPlanner(context.Background())
			if err != nil {
				return err
			}
			snapshotCache(planner)

			if outputJSON {
				return writeJSON(map[string]int{
					"bookings":  len(planner.Bookings()),
					"resources": len(planner.Resources()),
				})
			}
			fmt.Printf("Synced %d booking(s) across %d resource(s).\n",
				len(planner.Bookings()), len(planner.Resources()))
			return nil
		},
	}
}
