package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type CreateBookingRequest struct {
	CompanyID             string    `json:"companyId"`
	ProjectID             string    `json:"projectId"`
	EmployeeID            string    `json:"employeeId"`
	ResourceCoordinatorID string    `json:"resourceCoordinatorId"`
	StartTime             time.Time `json:"startTime"`
	EndTime               time.Time `json:"endTime"`
	Duration              float64   `json:"duration"`
	TaskDescription       string    `json:"taskDescription"`
	TypeOfWork            string    `json:"typeOfWork"`
}

type UpdateBookingRequest struct {
	TypeOfWork      string `json:"typeOfWork,omitempty"`
	TaskDescription string `json:"taskDescription,omitempty"`
}

type TimePatch struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Duration  float64   `json:"duration"`
}

// Conflict describes the first stored booking that overlaps a requested
// interval. It is a value, not an error: a detected conflict is a successful
// answer from the overlap check.
type Conflict struct {
	Start time.Time
	End   time.Time
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s - %s", c.Start.Format("2006-01-02 15:04"), c.End.Format("15:04"))
}

type OverlapQuery struct {
	ResourceID string
	Start      time.Time
	End        time.Time
	// ExcludeBookingID ignores the booking being edited, so a booking never
	// conflicts with itself.
	ExcludeBookingID string
}

func (c *Client) CreateBooking(ctx context.Context, payload CreateBookingRequest) (Booking, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/booking/create", nil, payload)
	if err != nil {
		return Booking{}, err
	}
	var created Booking
	if err := c.doJSON(req, &created); err != nil {
		return Booking{}, err
	}
	return created, nil
}

// CheckOverlap asks the backend whether the interval collides with an existing
// booking for the resource. A 200 means no conflict. A 409 carries the
// overlapping intervals and yields the first one. Any other failure is
// returned as an error and must not be read as "no conflict".
func (c *Client) CheckOverlap(ctx context.Context, query OverlapQuery) (*Conflict, error) {
	q := url.Values{}
	q.Set("resourceId", query.ResourceID)
	q.Set("startTime", query.Start.Format(time.RFC3339))
	q.Set("endTime", query.End.Format(time.RFC3339))
	if query.ExcludeBookingID != "" {
		q.Set("bookingId", query.ExcludeBookingID)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/booking/check/overlap", q, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		var body struct {
			Overlaps []struct {
				StartTime FlexTime `json:"startTime"`
				EndTime   FlexTime `json:"endTime"`
			} `json:"overlaps"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode overlap response: %w", err)
		}
		if len(body.Overlaps) == 0 {
			return nil, fmt.Errorf("conflict reported without overlapping intervals")
		}
		first := body.Overlaps[0]
		return &Conflict{Start: first.StartTime.Time, End: first.EndTime.Time}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil, nil
}

func (c *Client) ListBookings(ctx context.Context, companyID string) ([]Booking, error) {
	path := "/api/booking/" + url.PathEscape(companyID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var bookings []Booking
	if err := c.doJSON(req, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetBookingByID fetches a single booking. This route is the one that returns
// wrapped and nested id/date encodings; the FlexID/FlexTime fields absorb them.
func (c *Client) GetBookingByID(ctx context.Context, id string) (Booking, error) {
	path := "/api/booking/bookingId/" + url.PathEscape(id)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return Booking{}, err
	}
	var booking Booking
	if err := c.doJSON(req, &booking); err != nil {
		return Booking{}, err
	}
	return booking, nil
}

func (c *Client) UpdateBookingFields(ctx context.Context, id string, patch UpdateBookingRequest) (Booking, error) {
	path := "/api/booking/" + url.PathEscape(id)
	req, err := c.newRequest(ctx, http.MethodPut, path, nil, patch)
	if err != nil {
		return Booking{}, err
	}
	var updated Booking
	if err := c.doJSON(req, &updated); err != nil {
		return Booking{}, err
	}
	return updated, nil
}

func (c *Client) UpdateBookingTime(ctx context.Context, id string, patch TimePatch) (Booking, error) {
	path := "/api/booking/booking/" + url.PathEscape(id)
	req, err := c.newRequest(ctx, http.MethodPatch, path, nil, patch)
	if err != nil {
		return Booking{}, err
	}
	var updated Booking
	if err := c.doJSON(req, &updated); err != nil {
		return Booking{}, err
	}
	return updated, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	path := "/api/booking/" + url.PathEscape(id)
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	return c.doStatus(req)
}
