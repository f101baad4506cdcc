package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <booking-id>",
		Short: "Delete a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])

			ctx := context.Background()
			planner, err := loadPlanner(ctx)
			if err != nil {
				return err
			}
			if _, ok := planner.BookingByID(id); !ok {
				return fmt.Errorf("booking %q not found", id)
			}
			if err := planner.Delete(ctx, id); err != nil {
				return err
			}

			snapshotCache(planner)

			fmt.Printf("Deleted booking %s.\n", id)
			return nil
		},
	}
	return cmd
}
