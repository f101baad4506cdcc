package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staffplan-cli/api"
)

const (
	minRowHours = 1
	maxRowHours = 24
)

var (
	// ErrFieldLocked is returned when an edit-mode draft rejects a change to a
	// field that cannot be modified in place (project, resource, time range,
	// duration).
	ErrFieldLocked = errors.New("field cannot be changed on an existing booking")
	// ErrRowsLocked is returned when rows are added or removed in edit mode.
	ErrRowsLocked = errors.New("rows cannot be added or removed on an existing booking")
)

// FieldError reports a per-field validation failure.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RowConflictError reports the first row whose interval collides with a stored
// booking. No creation payloads are produced when it is returned.
type RowConflictError struct {
	Row        int
	ResourceID string
	Conflict   api.Conflict
}

func (e *RowConflictError) Error() string {
	return fmt.Sprintf("row %d: resource %s is already booked %s", e.Row+1, e.ResourceID, e.Conflict)
}

type editedField int

const (
	// editedHours: duration was set last; the end time derives from it.
	editedHours editedField = iota
	// editedRange: an explicit end was picked last; hours derive from the range
	// until the next duration edit wins again.
	editedRange
)

// Row is one (resource, time range, duration) assignment in a draft. Duration
// and range are kept mutually consistent: whichever was edited last is
// authoritative and the other is derived.
type Row struct {
	ResourceID string
	start      time.Time
	end        time.Time
	hours      float64
	lastEdited editedField
}

// NewRow starts a row at the given time with a duration in hours.
func NewRow(resourceID string, start time.Time, hours float64) Row {
	return Row{
		ResourceID: resourceID,
		start:      start,
		end:        start.Add(hoursToDuration(hours)),
		hours:      hours,
		lastEdited: editedHours,
	}
}

func (r Row) Start() time.Time { return r.start }
func (r Row) End() time.Time   { return r.end }

// Hours is the row's duration. After SetHours it is the value that was set;
// after SetRange it is derived from the range.
func (r Row) Hours() float64 {
	if r.lastEdited == editedRange {
		return r.end.Sub(r.start).Hours()
	}
	return r.hours
}

// SetHours makes duration authoritative and rederives the end time.
func (r *Row) SetHours(hours float64) {
	r.hours = hours
	r.end = r.start.Add(hoursToDuration(hours))
	r.lastEdited = editedHours
}

// SetStart moves the row. With duration authoritative the end shifts to
// preserve it; with an explicitly picked end the end stays where the user put
// it.
func (r *Row) SetStart(start time.Time) {
	r.start = start
	if r.lastEdited == editedHours {
		r.end = start.Add(hoursToDuration(r.hours))
	}
}

// SetRange sets both endpoints explicitly; the range becomes authoritative.
func (r *Row) SetRange(start, end time.Time) {
	r.start = start
	r.end = end
	r.lastEdited = editedRange
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// Draft is the booking form: one project, one type of work, one task
// description, and one row per resource to book. In edit mode it wraps a
// single existing booking and only the type of work and description are
// editable.
type Draft struct {
	ProjectID       string
	TypeOfWorkID    string
	TaskDescription string

	rows      []Row
	editMode  bool
	bookingID string
}

func NewDraft() *Draft {
	return &Draft{}
}

// NewEditDraft wraps an existing booking. The single row and the project are
// locked; SetTypeOfWork and SetTaskDescription remain available.
func NewEditDraft(b Booking) *Draft {
	row := NewRow(b.ResourceID, b.Start, b.Hours)
	row.SetRange(b.Start, b.End)
	return &Draft{
		ProjectID:       b.ProjectID,
		TypeOfWorkID:    b.TypeOfWorkID,
		TaskDescription: b.TaskDescription,
		rows:            []Row{row},
		editMode:        true,
		bookingID:       b.ID,
	}
}

func (d *Draft) EditMode() bool    { return d.editMode }
func (d *Draft) BookingID() string { return d.bookingID }
func (d *Draft) Rows() []Row       { return d.rows }

func (d *Draft) AddRow(row Row) error {
	if d.editMode {
		return ErrRowsLocked
	}
	d.rows = append(d.rows, row)
	return nil
}

func (d *Draft) RemoveRow(i int) error {
	if d.editMode {
		return ErrRowsLocked
	}
	if i < 0 || i >= len(d.rows) {
		return fmt.Errorf("no row %d", i)
	}
	d.rows = append(d.rows[:i], d.rows[i+1:]...)
	return nil
}

func (d *Draft) SetProject(id string) error {
	if d.editMode {
		return ErrFieldLocked
	}
	d.ProjectID = id
	return nil
}

func (d *Draft) SetRowHours(i int, hours float64) error {
	if d.editMode {
		return ErrFieldLocked
	}
	if i < 0 || i >= len(d.rows) {
		return fmt.Errorf("no row %d", i)
	}
	d.rows[i].SetHours(hours)
	return nil
}

func (d *Draft) SetRowRange(i int, start, end time.Time) error {
	if d.editMode {
		return ErrFieldLocked
	}
	if i < 0 || i >= len(d.rows) {
		return fmt.Errorf("no row %d", i)
	}
	d.rows[i].SetRange(start, end)
	return nil
}

func (d *Draft) SetTypeOfWork(id string) {
	d.TypeOfWorkID = id
}

func (d *Draft) SetTaskDescription(text string) {
	d.TaskDescription = text
}

// Validate checks required fields and per-row duration bounds before any
// backend call is made.
func (d *Draft) Validate() error {
	if d.ProjectID == "" {
		return &FieldError{Field: "project", Message: "required"}
	}
	if d.TypeOfWorkID == "" {
		return &FieldError{Field: "typeOfWork", Message: "required"}
	}
	if len(d.rows) == 0 {
		return &FieldError{Field: "resource", Message: "at least one assignment is required"}
	}
	for i, row := range d.rows {
		if row.ResourceID == "" {
			return &FieldError{Field: "resource", Message: fmt.Sprintf("row %d: required", i+1)}
		}
		if row.start.IsZero() || row.end.IsZero() {
			return &FieldError{Field: "range", Message: fmt.Sprintf("row %d: required", i+1)}
		}
		if !row.end.After(row.start) {
			return &FieldError{Field: "range", Message: fmt.Sprintf("row %d: end must be after start", i+1)}
		}
		hours := row.Hours()
		if hours < minRowHours || hours > maxRowHours {
			return &FieldError{Field: "hours", Message: fmt.Sprintf("row %d: must be between %d and %d", i+1, minRowHours, maxRowHours)}
		}
	}
	return nil
}

// OverlapChecker is the backend's advisory conflict check. *api.Client
// satisfies it.
type OverlapChecker interface {
	CheckOverlap(ctx context.Context, query api.OverlapQuery) (*api.Conflict, error)
}

// Resolve validates the draft, resolves the project and type-of-work ids
// against the lookup lists, and runs the overlap check for every row in form
// order. Checks are strictly sequential: the first conflicting row aborts the
// whole submission and later rows are never checked. Only when every row
// passes does Resolve return the creation payloads; persisting them is the
// planner's job.
func (d *Draft) Resolve(ctx context.Context, checker OverlapChecker, session Session, projects []api.Project, types []api.TypeOfWork) ([]api.CreateBookingRequest, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	project, ok := findProject(projects, d.ProjectID)
	if !ok {
		return nil, &FieldError{Field: "project", Message: fmt.Sprintf("unknown project %q", d.ProjectID)}
	}
	if !hasTypeOfWork(types, d.TypeOfWorkID) {
		return nil, &FieldError{Field: "typeOfWork", Message: fmt.Sprintf("unknown type of work %q", d.TypeOfWorkID)}
	}

	for i, row := range d.rows {
		conflict, err := checker.CheckOverlap(ctx, api.OverlapQuery{
			ResourceID:       row.ResourceID,
			Start:            row.start,
			End:              row.end,
			ExcludeBookingID: d.bookingID,
		})
		if err != nil {
			return nil, fmt.Errorf("overlap check for %s: %w", row.ResourceID, err)
		}
		if conflict != nil {
			return nil, &RowConflictError{Row: i, ResourceID: row.ResourceID, Conflict: *conflict}
		}
	}

	payloads := make([]api.CreateBookingRequest, 0, len(d.rows))
	for _, row := range d.rows {
		payloads = append(payloads, api.CreateBookingRequest{
			CompanyID:             session.CompanyID,
			ProjectID:             project.ID.String(),
			EmployeeID:            row.ResourceID,
			ResourceCoordinatorID: session.UserID,
			StartTime:             row.start,
			EndTime:               row.end,
			Duration:              row.Hours(),
			TaskDescription:       d.TaskDescription,
			TypeOfWork:            d.TypeOfWorkID,
		})
	}
	return payloads, nil
}

func findProject(projects []api.Project, id string) (api.Project, bool) {
	for _, p := range projects {
		if p.ID.String() == id {
			return p, true
		}
	}
	return api.Project{}, false
}

func hasTypeOfWork(types []api.TypeOfWork, id string) bool {
	for _, t := range types {
		if t.ID.String() == id {
			return true
		}
	}
	return false
}
