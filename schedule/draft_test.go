package schedule

import (
	"context"
	"testing"
	"time"

	"staffplan-cli/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	// conflicts maps a resource id to the interval reported for it.
	conflicts map[string]api.Conflict
	checked   []string
	err       error
}

func (f *fakeChecker) CheckOverlap(ctx context.Context, query api.OverlapQuery) (*api.Conflict, error) {
	f.checked = append(f.checked, query.ResourceID)
	if f.err != nil {
		return nil, f.err
	}
	if conflict, ok := f.conflicts[query.ResourceID]; ok {
		return &conflict, nil
	}
	return nil, nil
}

var (
	testProjects = []api.Project{{ID: api.ID("p1"), Name: "Atlas"}}
	testTypes    = []api.TypeOfWork{{ID: api.ID("t1"), Name: "Development"}}
	testSession  = Session{UserID: "coordinator", CompanyID: "c1"}
)

func nineAM() time.Time {
	return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
}

func createDraft(t *testing.T, resourceIDs ...string) *Draft {
	t.Helper()
	draft := NewDraft()
	require.NoError(t, draft.SetProject("p1"))
	draft.SetTypeOfWork("t1")
	draft.SetTaskDescription("sprint work")
	for _, id := range resourceIDs {
		require.NoError(t, draft.AddRow(NewRow(id, nineAM(), 1)))
	}
	return draft
}

func TestRowDurationAndRangeStayConsistent(t *testing.T) {
	row := NewRow("u1", nineAM(), 1)
	assert.Equal(t, time.Hour, row.End().Sub(row.Start()))

	row.SetHours(3)
	assert.Equal(t, 3*time.Hour, row.End().Sub(row.Start()))
	assert.Equal(t, 3.0, row.Hours())
}

func TestRowSetStartPreservesDuration(t *testing.T) {
	row := NewRow("u1", nineAM(), 2)
	row.SetStart(nineAM().Add(4 * time.Hour))

	assert.Equal(t, nineAM().Add(4*time.Hour), row.Start())
	assert.Equal(t, 2*time.Hour, row.End().Sub(row.Start()))
}

func TestRowExplicitEndWinsUntilNextDurationEdit(t *testing.T) {
	row := NewRow("u1", nineAM(), 1)

	// The user picks an explicit end: the range is authoritative.
	row.SetRange(nineAM(), nineAM().Add(5*time.Hour))
	assert.Equal(t, 5.0, row.Hours())

	// Moving the start keeps the explicitly picked end.
	row.SetStart(nineAM().Add(time.Hour))
	assert.Equal(t, nineAM().Add(5*time.Hour), row.End())

	// A later duration edit wins again.
	row.SetHours(2)
	assert.Equal(t, 2*time.Hour, row.End().Sub(row.Start()))
	assert.Equal(t, 2.0, row.Hours())
}

func TestDraftValidation(t *testing.T) {
	cases := []struct {
		name  string
		build func(t *testing.T) *Draft
		field string
	}{
		{
			"missing project",
			func(t *testing.T) *Draft {
				d := NewDraft()
				d.SetTypeOfWork("t1")
				require.NoError(t, d.AddRow(NewRow("u1", nineAM(), 1)))
				return d
			},
			"project",
		},
		{
			"missing type of work",
			func(t *testing.T) *Draft {
				d := NewDraft()
				require.NoError(t, d.SetProject("p1"))
				require.NoError(t, d.AddRow(NewRow("u1", nineAM(), 1)))
				return d
			},
			"typeOfWork",
		},
		{
			"no rows",
			func(t *testing.T) *Draft { return createDraft(t) },
			"resource",
		},
		{
			"missing resource",
			func(t *testing.T) *Draft { return createDraft(t, "") },
			"resource",
		},
		{
			"hours above bound",
			func(t *testing.T) *Draft {
				d := createDraft(t, "u1")
				require.NoError(t, d.SetRowHours(0, 25))
				return d
			},
			"hours",
		},
		{
			"hours below bound",
			func(t *testing.T) *Draft {
				d := createDraft(t, "u1")
				require.NoError(t, d.SetRowRange(0, nineAM(), nineAM().Add(30*time.Minute)))
				return d
			},
			"hours",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.build(t).Validate()
			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.field, fieldErr.Field)
		})
	}
}

func TestEditModeLocksEverythingButTypeAndDescription(t *testing.T) {
	booking := mkBooking("b1", "u1", nineAM(), 2)
	booking.ProjectID = "p1"
	booking.TypeOfWorkID = "t1"
	draft := NewEditDraft(booking)

	assert.ErrorIs(t, draft.SetProject("p2"), ErrFieldLocked)
	assert.ErrorIs(t, draft.SetRowHours(0, 3), ErrFieldLocked)
	assert.ErrorIs(t, draft.SetRowRange(0, nineAM(), nineAM().Add(time.Hour)), ErrFieldLocked)
	assert.ErrorIs(t, draft.AddRow(NewRow("u2", nineAM(), 1)), ErrRowsLocked)
	assert.ErrorIs(t, draft.RemoveRow(0), ErrRowsLocked)

	draft.SetTypeOfWork("t2")
	draft.SetTaskDescription("new text")
	assert.Equal(t, "t2", draft.TypeOfWorkID)
	assert.Equal(t, "new text", draft.TaskDescription)
}

func TestResolveChecksRowsInOrderAndStopsAtFirstConflict(t *testing.T) {
	draft := createDraft(t, "alice", "bob", "carol")
	checker := &fakeChecker{conflicts: map[string]api.Conflict{
		"bob": {Start: nineAM(), End: nineAM().Add(2 * time.Hour)},
	}}

	payloads, err := draft.Resolve(context.Background(), checker, testSession, testProjects, testTypes)
	require.Nil(t, payloads)

	var conflictErr *RowConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, 1, conflictErr.Row)
	assert.Equal(t, "bob", conflictErr.ResourceID)

	// carol's row is never checked once bob conflicts.
	assert.Equal(t, []string{"alice", "bob"}, checker.checked)
}

func TestResolveCheckerErrorAbortsSubmission(t *testing.T) {
	draft := createDraft(t, "alice", "bob")
	checker := &fakeChecker{err: assert.AnError}

	payloads, err := draft.Resolve(context.Background(), checker, testSession, testProjects, testTypes)
	assert.Nil(t, payloads)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"alice"}, checker.checked)
}

func TestResolveFailsOnUnknownLookups(t *testing.T) {
	draft := createDraft(t, "alice")
	checker := &fakeChecker{}

	_, err := draft.Resolve(context.Background(), checker, testSession, nil, testTypes)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "project", fieldErr.Field)
	assert.Empty(t, checker.checked, "lookup failures abort before any overlap check")

	_, err = draft.Resolve(context.Background(), checker, testSession, testProjects, nil)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "typeOfWork", fieldErr.Field)
}

func TestResolveProducesOnePayloadPerRow(t *testing.T) {
	draft := createDraft(t, "alice", "bob")
	checker := &fakeChecker{}

	payloads, err := draft.Resolve(context.Background(), checker, testSession, testProjects, testTypes)
	require.NoError(t, err)
	require.Len(t, payloads, 2)

	for i, resource := range []string{"alice", "bob"} {
		assert.Equal(t, resource, payloads[i].EmployeeID)
		assert.Equal(t, "c1", payloads[i].CompanyID)
		assert.Equal(t, "coordinator", payloads[i].ResourceCoordinatorID)
		assert.Equal(t, "p1", payloads[i].ProjectID)
		assert.Equal(t, "t1", payloads[i].TypeOfWork)
		assert.Equal(t, 1.0, payloads[i].Duration)
		assert.Equal(t, "sprint work", payloads[i].TaskDescription)
	}
}

func TestResolveEditModeExcludesOwnBooking(t *testing.T) {
	booking := mkBooking("b1", "u1", nineAM(), 2)
	booking.ProjectID = "p1"
	booking.TypeOfWorkID = "t1"
	draft := NewEditDraft(booking)

	var gotExclude string
	checker := &checkerFunc{fn: func(query api.OverlapQuery) (*api.Conflict, error) {
		gotExclude = query.ExcludeBookingID
		return nil, nil
	}}

	_, err := draft.Resolve(context.Background(), checker, testSession, testProjects, testTypes)
	require.NoError(t, err)
	assert.Equal(t, "b1", gotExclude)
}

type checkerFunc struct {
	fn func(query api.OverlapQuery) (*api.Conflict, error)
}

func (c *checkerFunc) CheckOverlap(ctx context.Context, query api.OverlapQuery) (*api.Conflict, error) {
	return c.fn(query)
}
