package schedule

import "fmt"

// DefaultWorkingHoursPerDay is used when the company setting is unavailable.
const DefaultWorkingHoursPerDay = 8

// HoursKey identifies one resource's calendar day in a BookedHoursIndex.
func HoursKey(resourceID string, dateKey string) string {
	return resourceID + "_" + dateKey
}

// BookedHoursIndex maps HoursKey(resource, date) to the total booked hours of
// that resource on that day.
type BookedHoursIndex map[string]float64

// CalculateBookedHours accumulates each booking's End-Start span under its
// resource and the calendar date of its start. A booking crossing midnight
// contributes its full span to the start date; that matches how capacity is
// displayed and is intentional, not a rounding of multi-day splitting.
func CalculateBookedHours(bookings []Booking) BookedHoursIndex {
	index := make(BookedHoursIndex, len(bookings))
	for _, b := range bookings {
		if b.End.Before(b.Start) {
			continue
		}
		hours := b.End.Sub(b.Start).Hours()
		index[HoursKey(b.ResourceID, DateKey(b.Start))] += hours
	}
	return index
}

// Remaining returns the capacity left for a resource on a date against the
// company's working hours per day. Over-booked days go negative; the value is
// not clamped so the caller can flag them.
func (index BookedHoursIndex) Remaining(workingHoursPerDay float64, resourceID, dateKey string) float64 {
	return workingHoursPerDay - index[HoursKey(resourceID, dateKey)]
}

// FormatRemaining renders a capacity label such as "3.5h left" or "1h over".
func FormatRemaining(remaining float64) string {
	if remaining < 0 {
		return fmt.Sprintf("%sh over", trimHours(-remaining))
	}
	return fmt.Sprintf("%sh left", trimHours(remaining))
}

func trimHours(hours float64) string {
	if hours == float64(int64(hours)) {
		return fmt.Sprintf("%d", int64(hours))
	}
	return fmt.Sprintf("%.1f", hours)
}
