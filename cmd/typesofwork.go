package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func typesOfWorkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types-of-work",
		Short: "List types of work",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return err
			}

			types, err := client.ListTypesOfWork(context.Background())
			if err != nil {
				return err
			}

			if outputJSON {
				return writeJSON(types)
			}
			if len(types) == 0 {
				fmt.Println("No types of work found.")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
			if !outputCompact {
				fmt.Fprintln(writer, "ID\tNAME")
			}
			for _, t := range types {
				fmt.Fprintf(writer, "%s\t%s\n", t.ID, t.Name)
			}
			return writer.Flush()
		},
	}
}
