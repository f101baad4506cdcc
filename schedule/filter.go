package schedule

import "strings"

// FilterBookings returns the bookings passing every active filter: calendar
// date of the start, resource id, and the resource's team membership. The team
// comparison is case-insensitive and ignores surrounding whitespace. When a
// team filter is active, a booking whose resource is unknown (or has no teams)
// never passes.
func FilterBookings(bookings []Booking, resources []Resource, filter Filter) []Booking {
	byID := make(map[string]Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}

	team := strings.ToLower(strings.TrimSpace(filter.Team))

	var out []Booking
	for _, b := range bookings {
		if filter.Date != "" && DateKey(b.Start) != filter.Date {
			continue
		}
		if filter.ResourceID != "" && b.ResourceID != filter.ResourceID {
			continue
		}
		if team != "" && !resourceInTeam(byID[b.ResourceID], team) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func resourceInTeam(r Resource, team string) bool {
	for _, title := range r.TeamTitles {
		if strings.ToLower(strings.TrimSpace(title)) == team {
			return true
		}
	}
	return false
}
