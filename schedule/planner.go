package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"staffplan-cli/api"
)

// API is the slice of the booking client the planner drives. *api.Client
// satisfies it; tests substitute a fake.
type API interface {
	OverlapChecker
	ListUsers(ctx context.Context, companyID string) ([]api.User, error)
	ListBookings(ctx context.Context, companyID string) ([]api.Booking, error)
	ListTeams(ctx context.Context, companyID string) ([]api.Team, error)
	GetCompany(ctx context.Context, companyID string) (api.Company, error)
	CreateBooking(ctx context.Context, payload api.CreateBookingRequest) (api.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	UpdateBookingTime(ctx context.Context, id string, patch api.TimePatch) (api.Booking, error)
}

// Planner owns the in-memory calendar: the master booking list, the bookable
// resources, and the active filter. Mutating flows apply optimistic local
// changes and then refetch, and a refetch always replaces the list rather than
// appending to it.
type Planner struct {
	api     API
	session Session

	resources    []Resource
	teams        []string
	bookings     []Booking
	workingHours float64
	filter       Filter
}

func NewPlanner(client API, session Session) *Planner {
	return &Planner{
		api:          client,
		session:      session,
		workingHours: DefaultWorkingHoursPerDay,
	}
}

// Load performs the initial fetch: workspace users as resources, the company's
// bookings, the team list for filtering, and the working-hours setting. Teams
// and working hours are advisory and degrade to empty / the default; resources
// and bookings are required.
func (p *Planner) Load(ctx context.Context) error {
	users, err := p.api.ListUsers(ctx, p.session.CompanyID)
	if err != nil {
		return fmt.Errorf("load resources: %w", err)
	}
	p.resources = p.resources[:0]
	for _, u := range users {
		p.resources = append(p.resources, Resource{
			ID:         u.ID.String(),
			Name:       u.Name,
			TeamTitles: u.TeamTitles,
		})
	}

	if err := p.Refresh(ctx); err != nil {
		return err
	}

	p.teams = p.teams[:0]
	if teams, err := p.api.ListTeams(ctx, p.session.CompanyID); err == nil {
		for _, t := range teams {
			p.teams = append(p.teams, t.Title)
		}
		sort.Strings(p.teams)
	}

	p.workingHours = DefaultWorkingHoursPerDay
	if company, err := p.api.GetCompany(ctx, p.session.CompanyID); err == nil && company.WorkingHoursPerDay > 0 {
		p.workingHours = company.WorkingHoursPerDay
	}
	return nil
}

// Refresh refetches the booking list and replaces the local one. Wire records
// that fail to normalize are dropped rather than failing the whole list.
func (p *Planner) Refresh(ctx context.Context) error {
	raw, err := p.api.ListBookings(ctx, p.session.CompanyID)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	replacement := make([]Booking, 0, len(raw))
	for _, r := range raw {
		booking, err := FromWire(r)
		if err != nil {
			continue
		}
		replacement = append(replacement, booking)
	}
	p.bookings = replacement
	return nil
}

func (p *Planner) Bookings() []Booking   { return p.bookings }
func (p *Planner) Resources() []Resource { return p.resources }
func (p *Planner) Teams() []string       { return p.teams }
func (p *Planner) WorkingHours() float64 { return p.workingHours }
func (p *Planner) Session() Session      { return p.session }

func (p *Planner) SetFilter(filter Filter) { p.filter = filter }
func (p *Planner) Filter() Filter          { return p.filter }

// Visible is the filtered view of the booking list.
func (p *Planner) Visible() []Booking {
	return FilterBookings(p.bookings, p.resources, p.filter)
}

func (p *Planner) ResourceByID(id string) (Resource, bool) {
	for _, r := range p.resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}

func (p *Planner) BookingByID(id string) (Booking, bool) {
	for _, b := range p.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return Booking{}, false
}

// ResourceLabel decorates a resource name with its remaining capacity for a
// date, e.g. "Ada Lovelace (3h left)". Over-booked resources show "Nh over".
func (p *Planner) ResourceLabel(resourceID, dateKey string) string {
	name := resourceID
	if r, ok := p.ResourceByID(resourceID); ok && r.Name != "" {
		name = r.Name
	}
	index := CalculateBookedHours(p.bookings)
	remaining := index.Remaining(p.workingHours, resourceID, dateKey)
	return fmt.Sprintf("%s (%s)", name, FormatRemaining(remaining))
}

// BatchResult reports the outcome of persisting a resolved draft.
type BatchResult struct {
	// Created holds the bookings persisted before any failure. They stay
	// created: the batch is not atomic and there is no compensating rollback.
	Created []Booking
	// Err is the first creation failure, nil when every row persisted.
	Err error
	// RefreshErr reports the post-batch refetch failing; the local list then
	// still holds the optimistic entries.
	RefreshErr error
}

// CreateFromDraft resolves the draft (validation, lookups, sequential overlap
// checks) and persists one booking per row. Resolution failures abort before
// any creation. Creation failures stop the batch but do not undo earlier rows;
// a full refetch runs regardless of the outcome so the list ends on server
// truth.
func (p *Planner) CreateFromDraft(ctx context.Context, draft *Draft, projects []api.Project, types []api.TypeOfWork) (BatchResult, error) {
	payloads, err := draft.Resolve(ctx, p.api, p.session, projects, types)
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for _, payload := range payloads {
		created, err := p.api.CreateBooking(ctx, payload)
		if err != nil {
			result.Err = fmt.Errorf("create booking for %s: %w", payload.EmployeeID, err)
			break
		}
		booking := p.optimistic(created, payload)
		p.bookings = append(p.bookings, booking)
		result.Created = append(result.Created, booking)
	}

	result.RefreshErr = p.Refresh(ctx)
	return result, nil
}

// optimistic builds the locally appended booking from the create response,
// falling back to the request payload when the response is partial.
func (p *Planner) optimistic(created api.Booking, payload api.CreateBookingRequest) Booking {
	if booking, err := FromWire(created); err == nil {
		return booking
	}
	return Booking{
		ID:              created.ID.String(),
		ResourceID:      payload.EmployeeID,
		Start:           payload.StartTime,
		End:             payload.EndTime,
		Hours:           payload.Duration,
		ProjectID:       payload.ProjectID,
		TypeOfWorkID:    payload.TypeOfWork,
		TaskDescription: payload.TaskDescription,
		CoordinatorID:   payload.ResourceCoordinatorID,
	}
}

// Move reschedules a booking by deleting the original and creating a
// replacement at the new time with the same resource, project and description.
// The local list is only touched after the create succeeds, then a refetch
// reconciles with the server.
func (p *Planner) Move(ctx context.Context, id string, newStart, newEnd time.Time) (Booking, error) {
	original, ok := p.BookingByID(id)
	if !ok {
		return Booking{}, fmt.Errorf("booking %s not found", id)
	}

	if err := p.api.DeleteBooking(ctx, id); err != nil {
		return Booking{}, fmt.Errorf("delete booking %s: %w", id, err)
	}

	moved, err := p.createAt(ctx, original, newStart, newEnd)
	if err != nil {
		// The original is already gone server side; the refetch below
		// surfaces that instead of leaving a stale local entry.
		_ = p.Refresh(ctx)
		return Booking{}, err
	}

	kept := p.bookings[:0]
	for _, b := range p.bookings {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	p.bookings = append(kept, moved)

	_ = p.Refresh(ctx)
	return moved, nil
}

// Copy duplicates a booking at a new time. The original keeps its id, start
// and end; exactly one new booking is appended after the create succeeds.
func (p *Planner) Copy(ctx context.Context, id string, newStart, newEnd time.Time) (Booking, error) {
	original, ok := p.BookingByID(id)
	if !ok {
		return Booking{}, fmt.Errorf("booking %s not found", id)
	}

	copied, err := p.createAt(ctx, original, newStart, newEnd)
	if err != nil {
		return Booking{}, err
	}
	p.bookings = append(p.bookings, copied)

	_ = p.Refresh(ctx)
	return copied, nil
}

func (p *Planner) createAt(ctx context.Context, original Booking, newStart, newEnd time.Time) (Booking, error) {
	payload := api.CreateBookingRequest{
		CompanyID:             p.session.CompanyID,
		ProjectID:             original.ProjectID,
		EmployeeID:            original.ResourceID,
		ResourceCoordinatorID: original.CoordinatorID,
		StartTime:             newStart,
		EndTime:               newEnd,
		Duration:              newEnd.Sub(newStart).Hours(),
		TaskDescription:       original.TaskDescription,
		TypeOfWork:            original.TypeOfWorkID,
	}
	created, err := p.api.CreateBooking(ctx, payload)
	if err != nil {
		return Booking{}, fmt.Errorf("create booking for %s: %w", original.ResourceID, err)
	}
	booking := p.optimistic(created, payload)
	booking.ProjectName = original.ProjectName
	booking.ProjectColor = original.ProjectColor
	return booking, nil
}

// Resize changes a booking's interval in place, rederiving its hours from the
// new range. The local change is applied before the persist call; when the
// persist fails the error is returned but the local change stands, matching
// the platform's resize behavior.
func (p *Planner) Resize(ctx context.Context, id string, newStart, newEnd time.Time) (Booking, error) {
	idx := -1
	for i, b := range p.bookings {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Booking{}, fmt.Errorf("booking %s not found", id)
	}
	if !newEnd.After(newStart) {
		return Booking{}, fmt.Errorf("end must be after start")
	}

	hours := newEnd.Sub(newStart).Hours()
	p.bookings[idx].Start = newStart
	p.bookings[idx].End = newEnd
	p.bookings[idx].Hours = hours

	if _, err := p.api.UpdateBookingTime(ctx, id, api.TimePatch{
		StartTime: newStart,
		EndTime:   newEnd,
		Duration:  hours,
	}); err != nil {
		return p.bookings[idx], fmt.Errorf("update booking time %s: %w", id, err)
	}
	return p.bookings[idx], nil
}

// Delete removes a booking server side and drops it from the local list.
func (p *Planner) Delete(ctx context.Context, id string) error {
	if err := p.api.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	kept := p.bookings[:0]
	for _, b := range p.bookings {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	p.bookings = kept
	return nil
}
