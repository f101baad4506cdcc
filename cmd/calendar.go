package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"staffplan-cli/schedule"
	"staffplan-cli/storage"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var overbookedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

func projectSwatch(color string) string {
	if color == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}

func calendarCmd() *cobra.Command {
	var date string
	var week bool
	var userID string
	var team string
	var cached bool

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the resource-allocation calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			targetDate, err := parseDateInput(defaultString(date, "today"))
			if err != nil {
				return err
			}

			filter := schedule.Filter{ResourceID: userID, Team: team}
			if !week {
				filter.Date = targetDate.Format("2006-01-02")
			}

			var bookings []schedule.Booking
			var resources []schedule.Resource
			workingHours := float64(schedule.DefaultWorkingHoursPerDay)

			if cached {
				cacheFilter := storage.CacheFilter{ResourceID: userID}
				if !week {
					cacheFilter.Date = filter.Date
				}
				allBookings, allResources, err := cachedCalendar(cacheFilter)
				if err != nil {
					return err
				}
				bookings = schedule.FilterBookings(allBookings, allResources, filter)
				resources = allResources
			} else {
				planner, err := loadPlanner(context.Background())
				if err != nil {
					return err
				}
				planner.SetFilter(filter)
				if week {
					bookings = weekBookings(planner, targetDate)
				} else {
					bookings = planner.Visible()
				}
				resources = planner.Resources()
				workingHours = planner.WorkingHours()
				snapshotCache(planner)
			}

			if outputJSON {
				return writeJSON(bookings)
			}
			if week {
				renderWeekGrid(targetDate, bookings, resources, workingHours)
				return nil
			}
			renderDayView(targetDate, bookings, resources, workingHours)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().BoolVar(&week, "week", false, "Show the whole week containing the date")
	cmd.Flags().StringVar(&userID, "user", "", "Filter by resource id")
	cmd.Flags().StringVar(&team, "team", "", "Filter by team name")
	cmd.Flags().BoolVar(&cached, "cached", false, "Use the local snapshot instead of the backend")
	return cmd
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// weekBookings applies the non-date filters, then narrows to the Monday-Sunday
// window around the target date.
func weekBookings(planner *schedule.Planner, target time.Time) []schedule.Booking {
	monday := startOfWeek(target)
	sunday := monday.AddDate(0, 0, 7)

	var out []schedule.Booking
	for _, b := range planner.Visible() {
		if b.Start.Before(monday) || !b.Start.Before(sunday) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := t.AddDate(0, 0, 1-weekday)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// renderDayView lists each resource's bookings for the day, with the
// remaining-capacity decoration on the resource label.
func renderDayView(date time.Time, bookings []schedule.Booking, resources []schedule.Resource, workingHours float64) {
	if len(bookings) == 0 {
		fmt.Printf("No bookings on %s.\n", date.Format("2006-01-02"))
		return
	}

	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].ResourceID != bookings[j].ResourceID {
			return bookings[i].ResourceID < bookings[j].ResourceID
		}
		return bookings[i].Start.Before(bookings[j].Start)
	})

	nameByID := map[string]string{}
	for _, r := range resources {
		nameByID[r.ID] = r.Name
	}
	index := schedule.CalculateBookedHours(bookings)
	dateKey := date.Format("2006-01-02")

	writer := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
	if !outputCompact {
		fmt.Fprintln(writer, "RESOURCE\tTIME\tPROJECT\tTASK\tID")
	}
	lastResource := ""
	for _, b := range bookings {
		label := ""
		if b.ResourceID != lastResource {
			label = resourceLabel(b.ResourceID, nameByID, index, workingHours, dateKey)
			lastResource = b.ResourceID
		}
		span := fmt.Sprintf("%s-%s", b.Start.Format("15:04"), b.End.Format("15:04"))
		project := fmt.Sprintf("%s %s", projectSwatch(b.ProjectColor), b.ProjectName)
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n", label, span, project, truncate(b.TaskDescription, 40), b.ID)
	}
	writer.Flush()
}

func resourceLabel(resourceID string, nameByID map[string]string, index schedule.BookedHoursIndex, workingHours float64, dateKey string) string {
	name := resourceID
	if n, ok := nameByID[resourceID]; ok && n != "" {
		name = n
	}
	remaining := index.Remaining(workingHours, resourceID, dateKey)
	capacity := schedule.FormatRemaining(remaining)
	if remaining < 0 {
		capacity = overbookedStyle.Render(capacity)
	}
	return fmt.Sprintf("%s (%s)", name, capacity)
}

// renderWeekGrid prints a resource-by-day grid of booked hours.
func renderWeekGrid(date time.Time, bookings []schedule.Booking, resources []schedule.Resource, workingHours float64) {
	monday := startOfWeek(date)
	index := schedule.CalculateBookedHours(bookings)

	booked := map[string]bool{}
	for _, b := range bookings {
		booked[b.ResourceID] = true
	}
	var shown []schedule.Resource
	for _, r := range resources {
		if booked[r.ID] {
			shown = append(shown, r)
		}
	}
	if len(shown) == 0 {
		fmt.Printf("No bookings in the week of %s.\n", monday.Format("2006-01-02"))
		return
	}

	writer := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
	header := "RESOURCE"
	for day := 0; day < 7; day++ {
		header += "\t" + monday.AddDate(0, 0, day).Format("Mon 02")
	}
	fmt.Fprintln(writer, header)

	for _, r := range shown {
		line := r.Name
		if line == "" {
			line = r.ID
		}
		for day := 0; day < 7; day++ {
			dateKey := monday.AddDate(0, 0, day).Format("2006-01-02")
			hours := index[schedule.HoursKey(r.ID, dateKey)]
			cell := "-"
			if hours > 0 {
				cell = fmt.Sprintf("%.1fh", hours)
				if hours > workingHours {
					cell = overbookedStyle.Render(cell)
				}
			}
			line += "\t" + cell
		}
		fmt.Fprintln(writer, line)
	}
	writer.Flush()
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max-1] + "…"
}
