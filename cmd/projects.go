package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"staffplan-cli/api"

	"github.com/spf13/cobra"
)

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}
	cmd.AddCommand(projectsListCmd())
	cmd.AddCommand(projectsCreateCmd())
	return cmd
}

func projectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return err
			}

			projects, err := client.ListProjects(context.Background())
			if err != nil {
				return err
			}

			if outputJSON {
				return writeJSON(projects)
			}
			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
			if !outputCompact {
				fmt.Fprintln(writer, "ID\tNAME\tTECH\tEST. HOURS")
			}
			for _, p := range projects {
				name := fmt.Sprintf("%s %s", projectSwatch(p.Color), p.Name)
				fmt.Fprintf(writer, "%s\t%s\t%s\t%.0f\n",
					p.ID, name, strings.Join(p.TechStack, ","), p.EstimatedHours)
			}
			return writer.Flush()
		},
	}
}

func projectsCreateCmd() *cobra.Command {
	var name string
	var color string
	var techStack []string
	var startDate string
	var endDate string
	var budget float64
	var estimatedHours float64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if _, err := requireSession(); err != nil {
				return err
			}

			payload := api.CreateProjectRequest{
				Name:           name,
				Color:          color,
				TechStack:      techStack,
				Budget:         budget,
				EstimatedHours: estimatedHours,
			}
			if startDate != "" {
				start, err := parseDateInput(startDate)
				if err != nil {
					return err
				}
				payload.StartTime = start
			}
			if endDate != "" {
				end, err := parseDateInput(endDate)
				if err != nil {
					return err
				}
				payload.EndTime = end
			}

			created, err := client.CreateProject(context.Background(), payload)
			if err != nil {
				return err
			}

			if outputJSON {
				return writeJSON(created)
			}
			fmt.Printf("Created project %s (%s).\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&color, "color", "", "Display color (hex or terminal color)")
	cmd.Flags().StringSliceVar(&techStack, "tech", nil, "Tech stack entries")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Budget")
	cmd.Flags().Float64Var(&estimatedHours, "estimated-hours", 0, "Estimated hours")
	return cmd
}
