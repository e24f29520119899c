package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event is a busy block on the external calendar.
type Event struct {
	ID         string
	Title      string
	Status     string
	LocationID string
	Start      time.Time
	End        time.Time
}

type eventEnvelope struct {
	Events       []rawEvent `json:"events"`
	Appointments []rawEvent `json:"appointments"`
	Data         []rawEvent `json:"data"`
}

type rawEvent struct {
	ID                string          `json:"id"`
	LegacyID          string          `json:"_id"`
	Title             string          `json:"title"`
	LocationID        string          `json:"locationId"`
	AppointmentStatus string          `json:"appointmentStatus"`
	Status            string          `json:"status"`
	MisspelledStatus  string          `json:"appoinmentStatus"`
	StartTime         json.RawMessage `json:"startTime"`
	EndTime           json.RawMessage `json:"endTime"`
}

// wall-clock layouts without an offset are read in the location's zone.
var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

func decodeEvents(body []byte, zone *time.Location) ([]Event, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	var raws []rawEvent
	if body[0] == '[' {
		if err := json.Unmarshal(body, &raws); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	} else {
		var env eventEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		switch {
		case len(env.Events) > 0:
			raws = env.Events
		case len(env.Appointments) > 0:
			raws = env.Appointments
		default:
			raws = env.Data
		}
	}
	return normalizeEvents(raws, zone), nil
}

// normalizeEvents drops cancelled events and events without a usable range.
func normalizeEvents(raws []rawEvent, zone *time.Location) []Event {
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		status := firstNonEmpty(raw.AppointmentStatus, raw.Status, raw.MisspelledStatus)
		if IsCancelledStatus(status) {
			continue
		}
		start, ok := parseEventTime(raw.StartTime, zone)
		if !ok {
			continue
		}
		end, ok := parseEventTime(raw.EndTime, zone)
		if !ok {
			continue
		}
		events = append(events, Event{
			ID:         firstNonEmpty(raw.ID, raw.LegacyID),
			Title:      raw.Title,
			Status:     status,
			LocationID: raw.LocationID,
			Start:      start,
			End:        end,
		})
	}
	return events
}

// IsCancelledStatus reports whether status frees the time it covers.
func IsCancelledStatus(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	switch {
	case s == "cancelled", s == "canceled", s == "deleted":
		return true
	case strings.HasPrefix(s, "cancelled_"), strings.HasPrefix(s, "canceled_"):
		return true
	}
	return false
}

func parseEventTime(raw json.RawMessage, zone *time.Location) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, false
	}
	if raw[0] != '"' {
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).In(zone), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).In(zone), true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, zone); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
