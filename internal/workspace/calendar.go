package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// EventTime is a calendar event boundary.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Event is a calendar event.
type Event struct {
	ID          string     `json:"id,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       *EventTime `json:"start,omitempty"`
	End         *EventTime `json:"end,omitempty"`
	Attendees   []struct {
		Email string `json:"email"`
	} `json:"attendees,omitempty"`
	Status string `json:"status,omitempty"`
}

func (s *Service) ListEvents(ctx context.Context, accountID string, from, to time.Time) ([]Event, error) {
	q := url.Values{}
	q.Set("timeMin", from.Format(time.RFC3339))
	q.Set("timeMax", to.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	raw, err := s.calendar.Call(ctx, accountID, http.MethodGet, "calendars/primary/events", q, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Items []Event `json:"items"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse events: %w", err)
	}
	return resp.Items, nil
}

func (s *Service) InsertEvent(ctx context.Context, accountID string, event *Event) (*Event, error) {
	raw, err := s.calendar.Call(ctx, accountID, http.MethodPost, "calendars/primary/events", nil, event)
	if err != nil {
		return nil, err
	}
	var created Event
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("parse created event: %w", err)
	}
	return &created, nil
}

func (s *Service) PatchEvent(ctx context.Context, accountID, eventID string, patch *Event) (*Event, error) {
	raw, err := s.calendar.Call(ctx, accountID, http.MethodPatch, "calendars/primary/events/"+eventID, nil, patch)
	if err != nil {
		return nil, err
	}
	var updated Event
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("parse patched event: %w", err)
	}
	return &updated, nil
}

func (s *Service) DeleteEvent(ctx context.Context, accountID, eventID string) error {
	_, err := s.calendar.Call(ctx, accountID, http.MethodDelete, "calendars/primary/events/"+eventID, nil, nil)
	return err
}
