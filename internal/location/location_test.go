package location

import (
	"errors"
	"testing"
	"time"
)

func weekdayHours() []DayHours {
	return []DayHours{
		{Day: "monday", OpenTime: "09:00", CloseTime: "17:00"},
		{Day: "tuesday", OpenTime: "09:00", CloseTime: "17:00"},
		{Day: "saturday", IsClosed: true},
	}
}

func TestHoursFor(t *testing.T) {
	loc := &Location{ID: "loc-1", BusinessHours: weekdayHours()}
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		loc        *Location
		date       time.Time
		wantReason string
		wantOpen   string
	}{
		{"open weekday", loc, monday, "", "09:00"},
		{"explicitly closed", loc, saturday, ReasonClosedOnDay, ""},
		{"no entry for weekday", loc, sunday, ReasonClosedOnDay, ""},
		{"no hours at all", &Location{ID: "loc-2"}, monday, ReasonNoHoursConfigured, ""},
		{"nil location", nil, monday, ReasonNoHoursConfigured, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, reason := tt.loc.HoursFor(tt.date)
			if reason != tt.wantReason {
				t.Fatalf("reason = %q, want %q", reason, tt.wantReason)
			}
			if tt.wantOpen != "" && hours.OpenTime != tt.wantOpen {
				t.Fatalf("open = %q, want %q", hours.OpenTime, tt.wantOpen)
			}
		})
	}
}

func TestHoursForIgnoresDayCase(t *testing.T) {
	loc := &Location{ID: "loc-1", BusinessHours: []DayHours{{Day: " Monday ", OpenTime: "10:00", CloseTime: "12:00"}}}
	hours, reason := loc.HoursFor(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	if reason != "" {
		t.Fatalf("unexpected closed reason %q", reason)
	}
	if hours.CloseTime != "12:00" {
		t.Fatalf("close = %q, want 12:00", hours.CloseTime)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		loc     *Location
		wantErr bool
	}{
		{"valid", &Location{ID: "loc-1", BusinessHours: weekdayHours()}, false},
		{"valid with timezone", &Location{ID: "loc-1", Timezone: "America/New_York", BusinessHours: weekdayHours()}, false},
		{"missing id", &Location{BusinessHours: weekdayHours()}, true},
		{"unknown timezone", &Location{ID: "loc-1", Timezone: "Mars/Olympus"}, true},
		{"unknown day", &Location{ID: "loc-1", BusinessHours: []DayHours{{Day: "funday", IsClosed: true}}}, true},
		{"duplicate day", &Location{ID: "loc-1", BusinessHours: []DayHours{
			{Day: "monday", OpenTime: "09:00", CloseTime: "17:00"},
			{Day: "Monday", IsClosed: true},
		}}, true},
		{"bad open time", &Location{ID: "loc-1", BusinessHours: []DayHours{{Day: "monday", OpenTime: "9am", CloseTime: "17:00"}}}, true},
		{"closed day ignores times", &Location{ID: "loc-1", BusinessHours: []DayHours{{Day: "monday", IsClosed: true, OpenTime: "junk"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loc.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHours) {
					t.Fatalf("expected ErrInvalidHours, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestZone(t *testing.T) {
	if z := (&Location{}).Zone(); z != time.UTC {
		t.Fatalf("empty timezone should be UTC, got %s", z)
	}
	if z := (&Location{Timezone: "Not/AZone"}).Zone(); z != time.UTC {
		t.Fatalf("unknown timezone should be UTC, got %s", z)
	}
	if z := (&Location{Timezone: "America/New_York"}).Zone(); z.String() != "America/New_York" {
		t.Fatalf("zone = %s, want America/New_York", z)
	}
}
