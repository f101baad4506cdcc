package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIDDecoding(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain string", `"abc123"`, "abc123"},
		{"oid wrapper", `{"$oid":"abc123"}`, "abc123"},
		{"nested id string", `{"_id":"abc123"}`, "abc123"},
		{"nested id oid", `{"_id":{"$oid":"abc123"}}`, "abc123"},
		{"doubly nested", `{"_id":{"_id":{"$oid":"abc123"}}}`, "abc123"},
		{"null", `null`, ""},
		{"unresolvable object", `{"foo":"bar"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var id FlexID
			require.NoError(t, json.Unmarshal([]byte(tc.in), &id))
			assert.Equal(t, tc.want, id.String())
			assert.Equal(t, tc.want == "", id.IsZero())
		})
	}
}

func TestFlexIDMarshalsAsPlainString(t *testing.T) {
	out, err := json.Marshal(ID("abc123"))
	require.NoError(t, err)
	assert.Equal(t, `"abc123"`, string(out))

	out, err = json.Marshal(FlexID{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestFlexTimeDecoding(t *testing.T) {
	ref := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   string
	}{
		{"rfc3339", `"2024-05-01T09:00:00Z"`},
		{"no zone", `"2024-05-01T09:00:00"`},
		{"epoch millis", `1714554000000`},
		{"date wrapper string", `{"$date":"2024-05-01T09:00:00Z"}`},
		{"date wrapper millis", `{"$date":1714554000000}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ft FlexTime
			require.NoError(t, json.Unmarshal([]byte(tc.in), &ft))
			assert.True(t, ft.Equal(ref), "got %s, want %s", ft, ref)
		})
	}
}

func TestFlexTimeRejectsGarbage(t *testing.T) {
	var ft FlexTime
	assert.Error(t, json.Unmarshal([]byte(`"not a time"`), &ft))
	assert.Error(t, json.Unmarshal([]byte(`{"wrong":"shape"}`), &ft))
}

func TestBookingDecodesMixedEncodings(t *testing.T) {
	payload := `{
		"_id": {"$oid": "b1"},
		"employeeId": "u1",
		"projectId": {"_id": "p1"},
		"projectName": "Atlas",
		"startTime": {"$date": "2024-05-01T09:00:00Z"},
		"endTime": "2024-05-01T10:00:00Z",
		"duration": 1
	}`

	var b Booking
	require.NoError(t, json.Unmarshal([]byte(payload), &b))
	assert.Equal(t, "b1", b.ID.String())
	assert.Equal(t, "u1", b.EmployeeID.String())
	assert.Equal(t, "p1", b.ProjectID.String())
	assert.Equal(t, 1.0, b.Duration)
	assert.Equal(t, time.Hour, b.EndTime.Sub(b.StartTime.Time))
}
