package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"staffplan-cli/schedule"
	"staffplan-cli/storage"
)

func parseDateInput(input string) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	now := time.Now()
	switch strings.ToLower(input) {
	case "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	case "tomorrow":
		t := now.AddDate(0, 0, 1)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", input, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", input)
	}
	return parsed, nil
}

func parseClock(input string) (int, error) {
	parsed, err := time.Parse("15:04", input)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", input)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func combineDateClock(date time.Time, clockMinutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clockMinutes/60, clockMinutes%60, 0, 0, date.Location())
}

// parseTimeRange parses "HH:MM-HH:MM" into start/end times on the given date.
func parseTimeRange(date time.Time, input string) (time.Time, time.Time, error) {
	parts := strings.Split(input, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time range %q (expected HH:MM-HH:MM)", input)
	}
	start, err := parseClock(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseClock(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end <= start {
		return time.Time{}, time.Time{}, fmt.Errorf("time range end must be after start")
	}
	return combineDateClock(date, start), combineDateClock(date, end), nil
}

func writeJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// requireSession loads the stored credentials, validates expiry, wires the
// token into the shared client, and returns the session scope.
func requireSession() (schedule.Session, error) {
	creds, err := storage.LoadCredentials()
	if err != nil {
		return schedule.Session{}, err
	}
	if creds == nil || creds.AccessToken == "" {
		return schedule.Session{}, fmt.Errorf("not logged in. Run 'staffplan auth login' first")
	}
	if creds.AccessTokenExpired(time.Now()) {
		return schedule.Session{}, fmt.Errorf("token expired. Run 'staffplan auth login' to re-authenticate")
	}
	client.AccessToken = creds.AccessToken

	companyID := creds.CompanyID
	if cfg.CompanyID != "" {
		companyID = cfg.CompanyID
	}
	if companyID == "" {
		return schedule.Session{}, fmt.Errorf("no company scope. Set company_id in config or re-login")
	}
	return schedule.Session{UserID: creds.UserID, CompanyID: companyID}, nil
}

// loadPlanner builds a planner for the current session and performs the
// initial fetch.
func loadPlanner(ctx context.Context) (*schedule.Planner, error) {
	session, err := requireSession()
	if err != nil {
		return nil, err
	}
	planner := schedule.NewPlanner(client, session)
	if err := planner.Load(ctx); err != nil {
		return nil, err
	}
	return planner, nil
}

// snapshotCache mirrors the planner's current state into the local sqlite
// cache. Cache failures are reported but never fail the command; the cache is
// a convenience, not the source of truth.
func snapshotCache(planner *schedule.Planner) {
	db, err := storage.OpenCacheDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache unavailable: %v\n", err)
		return
	}
	defer db.Close()

	nameByID := map[string]string{}
	var resources []storage.CachedResource
	for _, r := range planner.Resources() {
		nameByID[r.ID] = r.Name
		resources = append(resources, storage.CachedResource{
			ID:         r.ID,
			Name:       r.Name,
			TeamTitles: r.TeamTitles,
		})
	}

	var bookings []storage.CachedBooking
	for _, b := range planner.Bookings() {
		bookings = append(bookings, storage.CachedBooking{
			ID:              b.ID,
			ResourceID:      b.ResourceID,
			ResourceName:    nameByID[b.ResourceID],
			ProjectID:       b.ProjectID,
			ProjectName:     b.ProjectName,
			ProjectColor:    b.ProjectColor,
			TypeOfWork:      b.TypeOfWorkID,
			TaskDescription: b.TaskDescription,
			StartUTC:        b.Start.UTC().Format(time.RFC3339),
			EndUTC:          b.End.UTC().Format(time.RFC3339),
			Hours:           b.Hours,
		})
	}

	if err := storage.ReplaceResources(db, resources); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache resources: %v\n", err)
	}
	if err := storage.ReplaceBookings(db, bookings); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache bookings: %v\n", err)
	}
}

// cachedCalendar loads bookings and resources from the local snapshot for
// offline views.
func cachedCalendar(filter storage.CacheFilter) ([]schedule.Booking, []schedule.Resource, error) {
	db, err := storage.OpenCacheDB()
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	cached, err := storage.ListCachedBookings(db, filter)
	if err != nil {
		return nil, nil, err
	}
	cachedResources, err := storage.ListCachedResources(db)
	if err != nil {
		return nil, nil, err
	}

	var bookings []schedule.Booking
	for _, c := range cached {
		start, err := time.Parse(time.RFC3339, c.StartUTC)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, c.EndUTC)
		if err != nil {
			continue
		}
		bookings = append(bookings, schedule.Booking{
			ID:              c.ID,
			ResourceID:      c.ResourceID,
			Start:           start.Local(),
			End:             end.Local(),
			Hours:           c.Hours,
			ProjectID:       c.ProjectID,
			ProjectName:     c.ProjectName,
			ProjectColor:    c.ProjectColor,
			TypeOfWorkID:    c.TypeOfWork,
			TaskDescription: c.TaskDescription,
		})
	}

	var resources []schedule.Resource
	for _, c := range cachedResources {
		resources = append(resources, schedule.Resource{
			ID:         c.ID,
			Name:       c.Name,
			TeamTitles: c.TeamTitles,
		})
	}
	return bookings, resources, nil
}
