// Package location holds per-location configuration read by availability,
// most importantly the weekly business-hours table.
package location

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrLocationNotFound is returned when no record exists for a location id.
	ErrLocationNotFound = errors.New("location: not found")

	// ErrInvalidHours is returned when a business-hours table fails validation.
	ErrInvalidHours = errors.New("location: invalid business hours")
)

// Reasons reported when a date has no bookable hours.
const (
	ReasonNoHoursConfigured = "No business hours configured"
	ReasonClosedOnDay       = "Closed on this day"
)

const clockLayout = "15:04"

// DayHours is one weekday entry. OpenTime/CloseTime are "HH:MM" in the
// location's local time and carry no meaning when IsClosed is set.
type DayHours struct {
	Day       string `json:"day"` // lowercase weekday name, e.g. "monday"
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
	IsClosed  bool   `json:"isClosed"`
}

// Location is the slice of a location record the availability core reads.
type Location struct {
	ID            string     `json:"id"`
	Name          string     `json:"name,omitempty"`
	Timezone      string     `json:"timezone,omitempty"` // e.g. "America/New_York"
	BusinessHours []DayHours `json:"businessHours"`
}

// Zone returns the location's time zone, UTC when unset or unknown.
func (l *Location) Zone() *time.Location {
	if l == nil || strings.TrimSpace(l.Timezone) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HoursFor returns the entry for date's weekday. When the location is closed
// that day the returned reason is non-empty and the DayHours must be ignored.
func (l *Location) HoursFor(date time.Time) (DayHours, string) {
	if l == nil || len(l.BusinessHours) == 0 {
		return DayHours{}, ReasonNoHoursConfigured
	}
	day := WeekdayName(date.Weekday())
	for _, h := range l.BusinessHours {
		if normalizeDay(h.Day) != day {
			continue
		}
		if h.IsClosed {
			return h, ReasonClosedOnDay
		}
		return h, ""
	}
	return DayHours{}, ReasonClosedOnDay
}

// Validate enforces at most one entry per weekday and well-formed times on
// open days.
func (l *Location) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: nil location", ErrInvalidHours)
	}
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidHours)
	}
	if l.Timezone != "" {
		if _, err := time.LoadLocation(l.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidHours, l.Timezone)
		}
	}
	seen := make(map[string]struct{}, len(l.BusinessHours))
	for _, h := range l.BusinessHours {
		day := normalizeDay(h.Day)
		if _, ok := weekdays[day]; !ok {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidHours, h.Day)
		}
		if _, dup := seen[day]; dup {
			return fmt.Errorf("%w: duplicate entry for %s", ErrInvalidHours, day)
		}
		seen[day] = struct{}{}
		if h.IsClosed {
			continue
		}
		if _, err := time.Parse(clockLayout, h.OpenTime); err != nil {
			return fmt.Errorf("%w: %s open time %q", ErrInvalidHours, day, h.OpenTime)
		}
		if _, err := time.Parse(clockLayout, h.CloseTime); err != nil {
			return fmt.Errorf("%w: %s close time %q", ErrInvalidHours, day, h.CloseTime)
		}
	}
	return nil
}

// WeekdayName returns the lowercase English name used in DayHours.Day.
func WeekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func normalizeDay(day string) string {
	return strings.ToLower(strings.TrimSpace(day))
}
