package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"staffplan-cli/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	booking api.Booking
	getErr  error

	updated   *api.UpdateBookingRequest
	updatedID string
	response  api.Booking
	updateErr error
}

func (f *fakeFetcher) GetBookingByID(ctx context.Context, id string) (api.Booking, error) {
	if f.getErr != nil {
		return api.Booking{}, f.getErr
	}
	return f.booking, nil
}

func (f *fakeFetcher) UpdateBookingFields(ctx context.Context, id string, patch api.UpdateBookingRequest) (api.Booking, error) {
	f.updatedID = id
	f.updated = &patch
	if f.updateErr != nil {
		return api.Booking{}, f.updateErr
	}
	return f.response, nil
}

func TestFromWireNormalizesBooking(t *testing.T) {
	raw := wireBooking("b1", "alice", nineAM(), 2)
	raw.ProjectID = api.ID("p1")
	raw.ProjectName = "Atlas"
	raw.TypeOfWork = api.ID("t1")
	raw.TaskDescription = "sprint work"

	booking, err := FromWire(raw)
	require.NoError(t, err)
	assert.Equal(t, "b1", booking.ID)
	assert.Equal(t, "alice", booking.ResourceID)
	assert.Equal(t, nineAM(), booking.Start)
	assert.Equal(t, 2.0, booking.Hours)
	assert.Equal(t, "Atlas", booking.ProjectName)
}

func TestFromWireDerivesHoursFromRange(t *testing.T) {
	raw := wireBooking("b1", "alice", nineAM(), 3)
	raw.Duration = 0

	booking, err := FromWire(raw)
	require.NoError(t, err)
	assert.Equal(t, 3.0, booking.Hours)
}

func TestFromWireRejectsUnresolvableRecords(t *testing.T) {
	_, err := FromWire(api.Booking{StartTime: api.At(nineAM()), EndTime: api.At(nineAM().Add(time.Hour))})
	assert.Error(t, err, "a booking without an id is unusable")

	_, err = FromWire(api.Booking{ID: api.ID("b1")})
	assert.Error(t, err, "a booking without a time range is unusable")
}

func TestLoadBookingDraftWrapsFetchedBooking(t *testing.T) {
	raw := wireBooking("b1", "alice", nineAM(), 2)
	raw.ProjectID = api.ID("p1")
	raw.TypeOfWork = api.ID("t1")
	raw.TaskDescription = "sprint work"
	fetcher := &fakeFetcher{booking: raw}

	draft, err := LoadBookingDraft(context.Background(), fetcher, "b1")
	require.NoError(t, err)

	assert.True(t, draft.EditMode())
	assert.Equal(t, "b1", draft.BookingID())
	assert.Equal(t, "p1", draft.ProjectID)
	assert.Equal(t, "t1", draft.TypeOfWorkID)
	require.Len(t, draft.Rows(), 1)
	assert.Equal(t, nineAM(), draft.Rows()[0].Start())
	assert.Equal(t, 2.0, draft.Rows()[0].Hours())
}

func TestLoadBookingDraftFailsClosed(t *testing.T) {
	fetcher := &fakeFetcher{getErr: fmt.Errorf("backend down")}
	draft, err := LoadBookingDraft(context.Background(), fetcher, "b1")
	assert.Nil(t, draft)
	assert.Error(t, err)

	// A record with no resolvable times is as unusable as a failed fetch.
	fetcher = &fakeFetcher{booking: api.Booking{ID: api.ID("b1")}}
	draft, err = LoadBookingDraft(context.Background(), fetcher, "b1")
	assert.Nil(t, draft)
	assert.Error(t, err)
}

func TestSaveEditSendsOnlyEditableFields(t *testing.T) {
	raw := wireBooking("b1", "alice", nineAM(), 2)
	raw.TypeOfWork = api.ID("t1")
	fetcher := &fakeFetcher{booking: raw, response: raw}

	draft, err := LoadBookingDraft(context.Background(), fetcher, "b1")
	require.NoError(t, err)
	draft.SetTypeOfWork("t2")
	draft.SetTaskDescription("revised")

	_, err = SaveEdit(context.Background(), fetcher, draft)
	require.NoError(t, err)

	assert.Equal(t, "b1", fetcher.updatedID)
	require.NotNil(t, fetcher.updated)
	assert.Equal(t, "t2", fetcher.updated.TypeOfWork)
	assert.Equal(t, "revised", fetcher.updated.TaskDescription)
}

func TestSaveEditFallsBackToDraftViewOnPartialResponse(t *testing.T) {
	raw := wireBooking("b1", "alice", nineAM(), 2)
	fetcher := &fakeFetcher{booking: raw, response: api.Booking{ID: api.ID("b1")}}

	draft, err := LoadBookingDraft(context.Background(), fetcher, "b1")
	require.NoError(t, err)
	draft.SetTaskDescription("revised")

	saved, err := SaveEdit(context.Background(), fetcher, draft)
	require.NoError(t, err)
	assert.Equal(t, "b1", saved.ID)
	assert.Equal(t, "alice", saved.ResourceID)
	assert.Equal(t, "revised", saved.TaskDescription)
}

func TestSaveEditRejectsCreateDrafts(t *testing.T) {
	fetcher := &fakeFetcher{}
	_, err := SaveEdit(context.Background(), fetcher, NewDraft())
	assert.Error(t, err)
	assert.Nil(t, fetcher.updated)
}
