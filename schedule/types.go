// Package schedule holds the resource-allocation calendar: the booking and
// resource models, booked-hours aggregation, calendar filtering, the booking
// draft form, and the planner that reconciles local state with the backend.
package schedule

import "time"

// Resource is a bookable person.
type Resource struct {
	ID         string
	Name       string
	TeamTitles []string
}

// Booking is a scheduled work block assigning one resource to one project for
// a time interval. Hours is kept equal to End.Sub(Start) in hours; whichever
// of the two was edited last rederives the other.
type Booking struct {
	ID              string
	ResourceID      string
	Start           time.Time
	End             time.Time
	Hours           float64
	ProjectID       string
	ProjectName     string
	ProjectColor    string
	TypeOfWorkID    string
	TaskDescription string
	CoordinatorID   string
}

// Filter narrows the visible booking set. Zero fields are inactive; active
// fields are AND-combined.
type Filter struct {
	// Date matches bookings whose start falls on this calendar day
	// (YYYY-MM-DD in the booking's local time).
	Date string
	// ResourceID matches bookings assigned to this resource.
	ResourceID string
	// Team matches bookings whose resource belongs to the named team,
	// case-insensitively with surrounding whitespace ignored.
	Team string
}

// Session is the injected current-user context. It is read-only input supplied
// by the auth layer, never ambient state.
type Session struct {
	UserID    string
	CompanyID string
}

const dateKeyLayout = "2006-01-02"

// DateKey is the calendar-day key for a time, in its own location.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}
