package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "calendar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, ensureCacheSchema(db))
	return db
}

func TestReplaceBookingsSwapsTheWholeSnapshot(t *testing.T) {
	db := testCacheDB(t)

	first := []CachedBooking{
		{ID: "b1", ResourceID: "alice", StartUTC: "2024-05-01T09:00:00Z", EndUTC: "2024-05-01T11:00:00Z", Hours: 2},
		{ID: "b2", ResourceID: "bob", StartUTC: "2024-05-02T09:00:00Z", EndUTC: "2024-05-02T10:00:00Z", Hours: 1},
	}
	require.NoError(t, ReplaceBookings(db, first))

	// b1 was deleted server side; the next snapshot must not keep it around.
	second := []CachedBooking{
		{ID: "b2", ResourceID: "bob", StartUTC: "2024-05-02T09:00:00Z", EndUTC: "2024-05-02T10:00:00Z", Hours: 1},
	}
	require.NoError(t, ReplaceBookings(db, second))

	cached, err := ListCachedBookings(db, CacheFilter{})
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "b2", cached[0].ID)
	assert.NotEmpty(t, cached[0].SyncedAt)
}

func TestReplaceBookingsAssignsFallbackIDs(t *testing.T) {
	db := testCacheDB(t)

	bookings := []CachedBooking{
		{ResourceID: "alice", StartUTC: "2024-05-01T09:00:00Z", EndUTC: "2024-05-01T11:00:00Z", Hours: 2},
		{ResourceID: "bob", StartUTC: "2024-05-01T12:00:00Z", EndUTC: "2024-05-01T13:00:00Z", Hours: 1},
	}
	require.NoError(t, ReplaceBookings(db, bookings))

	cached, err := ListCachedBookings(db, CacheFilter{})
	require.NoError(t, err)
	require.Len(t, cached, 2)
	assert.NotEmpty(t, cached[0].ID)
	assert.NotEmpty(t, cached[1].ID)
	assert.NotEqual(t, cached[0].ID, cached[1].ID)
}

func TestListCachedBookingsFilters(t *testing.T) {
	db := testCacheDB(t)

	require.NoError(t, ReplaceBookings(db, []CachedBooking{
		{ID: "b1", ResourceID: "alice", StartUTC: "2024-05-01T09:00:00Z", EndUTC: "2024-05-01T11:00:00Z"},
		{ID: "b2", ResourceID: "alice", StartUTC: "2024-05-02T09:00:00Z", EndUTC: "2024-05-02T10:00:00Z"},
		{ID: "b3", ResourceID: "bob", StartUTC: "2024-05-01T13:00:00Z", EndUTC: "2024-05-01T14:00:00Z"},
	}))

	byDate, err := ListCachedBookings(db, CacheFilter{Date: "2024-05-01"})
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "b1", byDate[0].ID, "results come back ordered by start time")
	assert.Equal(t, "b3", byDate[1].ID)

	byResource, err := ListCachedBookings(db, CacheFilter{ResourceID: "bob"})
	require.NoError(t, err)
	require.Len(t, byResource, 1)
	assert.Equal(t, "b3", byResource[0].ID)

	both, err := ListCachedBookings(db, CacheFilter{Date: "2024-05-01", ResourceID: "alice"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "b1", both[0].ID)
}

func TestResourcesRoundTripTeamTitles(t *testing.T) {
	db := testCacheDB(t)

	require.NoError(t, ReplaceResources(db, []CachedResource{
		{ID: "alice", Name: "Alice", TeamTitles: []string{"Engineering", "Platform"}},
		{ID: "bob", Name: "Bob"},
	}))

	resources, err := ListCachedResources(db)
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, []string{"Engineering", "Platform"}, resources[0].TeamTitles)
	assert.Empty(t, resources[1].TeamTitles)
}
