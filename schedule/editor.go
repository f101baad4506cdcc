package schedule

import (
	"context"
	"fmt"

	"staffplan-cli/api"
)

// BookingFetcher is the subset of the client the edit loader needs.
type BookingFetcher interface {
	GetBookingByID(ctx context.Context, id string) (api.Booking, error)
	UpdateBookingFields(ctx context.Context, id string, patch api.UpdateBookingRequest) (api.Booking, error)
}

// FromWire normalizes a wire booking into the domain model. The single-booking
// route returns ids and dates in whichever encoding the backend picked that
// day; FlexID/FlexTime have already unwrapped them, so here missing values
// become errors rather than zero-valued bookings.
func FromWire(raw api.Booking) (Booking, error) {
	if raw.ID.IsZero() {
		return Booking{}, fmt.Errorf("booking has no resolvable id")
	}
	if raw.StartTime.IsZero() || raw.EndTime.IsZero() {
		return Booking{}, fmt.Errorf("booking %s has no resolvable time range", raw.ID)
	}

	hours := raw.Duration
	if hours == 0 {
		hours = raw.EndTime.Sub(raw.StartTime.Time).Hours()
	}

	return Booking{
		ID:              raw.ID.String(),
		ResourceID:      raw.EmployeeID.String(),
		Start:           raw.StartTime.Time,
		End:             raw.EndTime.Time,
		Hours:           hours,
		ProjectID:       raw.ProjectID.String(),
		ProjectName:     raw.ProjectName,
		ProjectColor:    raw.ProjectColor,
		TypeOfWorkID:    raw.TypeOfWork.String(),
		TaskDescription: raw.TaskDescription,
		CoordinatorID:   raw.ResourceCoordinatorID.String(),
	}, nil
}

// LoadBookingDraft fetches one booking and wraps it in an edit-mode draft. On
// any failure no draft is returned, so stale or partial data is never shown.
func LoadBookingDraft(ctx context.Context, fetcher BookingFetcher, id string) (*Draft, error) {
	raw, err := fetcher.GetBookingByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", id, err)
	}
	booking, err := FromWire(raw)
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", id, err)
	}
	return NewEditDraft(booking), nil
}

// SaveEdit persists the editable fields of an edit-mode draft. The caller
// refreshes the planner afterwards so the list reflects server truth.
func SaveEdit(ctx context.Context, fetcher BookingFetcher, draft *Draft) (Booking, error) {
	if !draft.EditMode() {
		return Booking{}, fmt.Errorf("draft is not editing an existing booking")
	}
	updated, err := fetcher.UpdateBookingFields(ctx, draft.BookingID(), api.UpdateBookingRequest{
		TypeOfWork:      draft.TypeOfWorkID,
		TaskDescription: draft.TaskDescription,
	})
	if err != nil {
		return Booking{}, fmt.Errorf("update booking %s: %w", draft.BookingID(), err)
	}
	saved, err := FromWire(updated)
	if err != nil {
		// Some backends answer the update with a partial record. The update
		// itself succeeded, so fall back to the draft's own view.
		rows := draft.Rows()
		return Booking{
			ID:              draft.BookingID(),
			ResourceID:      rows[0].ResourceID,
			Start:           rows[0].Start(),
			End:             rows[0].End(),
			Hours:           rows[0].Hours(),
			ProjectID:       draft.ProjectID,
			TypeOfWorkID:    draft.TypeOfWorkID,
			TaskDescription: draft.TaskDescription,
		}, nil
	}
	return saved, nil
}
