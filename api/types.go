package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// FlexID decodes the backend's inconsistent identifier encodings: a plain
// string, a Mongo extended-JSON wrapper {"$oid": "..."}, or an object whose
// "_id" field is itself either of those. Unwrapping recurses until a string is
// found; null and unrecognized shapes decode to the zero value so the caller
// can decide whether a missing id is fatal.
type FlexID struct {
	value string
}

func ID(value string) FlexID {
	return FlexID{value: value}
}

func (id FlexID) String() string { return id.value }
func (id FlexID) IsZero() bool   { return id.value == "" }

func (id FlexID) MarshalJSON() ([]byte, error) {
	if id.value == "" {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

func (id *FlexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		id.value = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		id.value = s
		return nil
	}
	var wrapper struct {
		OID *string         `json:"$oid"`
		ID  json.RawMessage `json:"_id"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		id.value = ""
		return nil
	}
	if wrapper.OID != nil {
		id.value = *wrapper.OID
		return nil
	}
	if len(wrapper.ID) > 0 {
		return id.UnmarshalJSON(wrapper.ID)
	}
	id.value = ""
	return nil
}

// FlexTime decodes a timestamp that arrives as an RFC 3339 string, an epoch
// value in milliseconds, or a {"$date": ...} wrapper around either.
type FlexTime struct {
	time.Time
}

func At(t time.Time) FlexTime {
	return FlexTime{Time: t}
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := parseTimeString(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}
	var millis int64
	if err := json.Unmarshal(data, &millis); err == nil {
		t.Time = time.UnixMilli(millis).UTC()
		return nil
	}
	var wrapper struct {
		Date json.RawMessage `json:"$date"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("unrecognized time encoding: %s", data)
	}
	if len(wrapper.Date) == 0 {
		return fmt.Errorf("unrecognized time encoding: %s", data)
	}
	return t.UnmarshalJSON(wrapper.Date)
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// Booking is the wire shape of a scheduled work block. Ids and timestamps use
// flexible decoding because different backend routes encode them differently.
type Booking struct {
	ID                    FlexID   `json:"_id"`
	CompanyID             FlexID   `json:"companyId"`
	EmployeeID            FlexID   `json:"employeeId"`
	ProjectID             FlexID   `json:"projectId"`
	ProjectName           string   `json:"projectName"`
	ProjectColor          string   `json:"projectColor"`
	TypeOfWork            FlexID   `json:"typeOfWork"`
	TaskDescription       string   `json:"taskDescription"`
	ResourceCoordinatorID FlexID   `json:"resourceCoordinatorId"`
	StartTime             FlexTime `json:"startTime"`
	EndTime               FlexTime `json:"endTime"`
	Duration              float64  `json:"duration"`
}

type Project struct {
	ID             FlexID   `json:"_id"`
	Name           string   `json:"projectName"`
	Color          string   `json:"color"`
	TechStack      []string `json:"techStack"`
	TeamID         FlexID   `json:"teamId"`
	ClientID       FlexID   `json:"clientId"`
	StartTime      FlexTime `json:"startTime"`
	EndTime        FlexTime `json:"endTime"`
	Budget         float64  `json:"budget"`
	EstimatedHours float64  `json:"estimatedHours"`
}

type TypeOfWork struct {
	ID   FlexID `json:"_id"`
	Name string `json:"name"`
}

type Team struct {
	ID    FlexID `json:"_id"`
	Title string `json:"teamTitle"`
}

// User is a bookable person from the workspace user list.
type User struct {
	ID         FlexID   `json:"_id"`
	Name       string   `json:"name"`
	TeamTitles []string `json:"teamTitle"`
}

type Company struct {
	ID                 FlexID  `json:"_id"`
	Name               string  `json:"companyName"`
	WorkingHoursPerDay float64 `json:"working_hours_per_day"`
}
