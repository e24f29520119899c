package calendar

import (
	"testing"
	"time"
)

func TestDecodeEvents_Envelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"events key", `{"events":[{"id":"a","startTime":1772463600000,"endTime":1772467200000}]}`, 1},
		{"appointments key", `{"appointments":[{"id":"a","startTime":"1772463600000","endTime":"1772467200000"}]}`, 1},
		{"data key", `{"data":[{"id":"a","startTime":"2026-03-02T15:00:00Z","endTime":"2026-03-02T16:00:00Z"}]}`, 1},
		{"bare array", `[{"id":"a","startTime":"2026-03-02T15:00:00Z","endTime":"2026-03-02T16:00:00Z"}]`, 1},
		{"empty body", ``, 0},
		{"empty envelope", `{}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := decodeEvents([]byte(tt.body), time.UTC)
			if err != nil {
				t.Fatalf("decodeEvents() error = %v", err)
			}
			if len(events) != tt.want {
				t.Fatalf("len(events) = %d, want %d", len(events), tt.want)
			}
		})
	}
}

func TestDecodeEvents_InvalidJSON(t *testing.T) {
	if _, err := decodeEvents([]byte(`{"events":`), time.UTC); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDecodeEvents_DropsUnusableEvents(t *testing.T) {
	body := `{"events":[
		{"id":"keep","status":"confirmed","startTime":"2026-03-02T15:00:00Z","endTime":"2026-03-02T16:00:00Z"},
		{"id":"no-end","startTime":"2026-03-02T15:00:00Z"},
		{"id":"null-start","startTime":null,"endTime":"2026-03-02T16:00:00Z"},
		{"id":"garbage","startTime":"tomorrow","endTime":"2026-03-02T16:00:00Z"},
		{"id":"cancelled","appointmentStatus":"Cancelled","startTime":"2026-03-02T15:00:00Z","endTime":"2026-03-02T16:00:00Z"},
		{"id":"typo-status","appoinmentStatus":"deleted","startTime":"2026-03-02T15:00:00Z","endTime":"2026-03-02T16:00:00Z"}
	]}`
	events, err := decodeEvents([]byte(body), time.UTC)
	if err != nil {
		t.Fatalf("decodeEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].ID != "keep" {
		t.Fatalf("events = %+v, want only keep", events)
	}
}

func TestDecodeEvents_StatusPrecedence(t *testing.T) {
	// appointmentStatus outranks status.
	body := `{"events":[{"id":"a","appointmentStatus":"confirmed","status":"cancelled","startTime":"2026-03-02T15:00:00Z","endTime":"2026-03-02T16:00:00Z"}]}`
	events, err := decodeEvents([]byte(body), time.UTC)
	if err != nil {
		t.Fatalf("decodeEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].Status != "confirmed" {
		t.Fatalf("events = %+v", events)
	}
}

func TestParseEventTime_Formats(t *testing.T) {
	zone := time.FixedZone("EST", -5*60*60)
	want := time.Date(2026, 3, 2, 10, 0, 0, 0, zone)
	ms := `1772463600000`

	tests := []struct {
		name string
		raw  string
	}{
		{"rfc3339", `"2026-03-02T10:00:00-05:00"`},
		{"rfc3339 utc", `"2026-03-02T15:00:00Z"`},
		{"wall clock space", `"2026-03-02 10:00:00"`},
		{"wall clock T", `"2026-03-02T10:00:00"`},
		{"epoch number", ms},
		{"epoch string", `"` + ms + `"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseEventTime([]byte(tt.raw), zone)
			if !ok {
				t.Fatalf("parseEventTime(%s) not ok", tt.raw)
			}
			if !got.Equal(want) {
				t.Fatalf("parseEventTime(%s) = %v, want %v", tt.raw, got, want)
			}
		})
	}
}

func TestIsCancelledStatus(t *testing.T) {
	cancelled := []string{"cancelled", "Canceled", " CANCELLED ", "cancelled_by_client", "canceled_no_show", "deleted"}
	for _, s := range cancelled {
		if !IsCancelledStatus(s) {
			t.Errorf("IsCancelledStatus(%q) = false, want true", s)
		}
	}
	active := []string{"", "confirmed", "booked", "showed", "noshow", "new"}
	for _, s := range active {
		if IsCancelledStatus(s) {
			t.Errorf("IsCancelledStatus(%q) = true, want false", s)
		}
	}
}
