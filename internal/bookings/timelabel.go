package bookings

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTimeLabel is returned when a booking's display time cannot be parsed.
var ErrMalformedTimeLabel = errors.New("bookings: malformed time label")

var displayTimePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)

// ParseDisplayTime turns a 12-hour label such as "10:00 AM" into an instant on
// date's calendar day, in date's location. 12 AM is midnight and 12 PM is noon.
func ParseDisplayTime(label string, date time.Time) (time.Time, error) {
	m := displayTimePattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimeLabel, label)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: %q out of range", ErrMalformedTimeLabel, label)
	}

	pm := strings.EqualFold(m[3], "pm")
	switch {
	case hour == 12 && !pm:
		hour = 0
	case hour != 12 && pm:
		hour += 12
	}

	y, mo, d := date.Date()
	return time.Date(y, mo, d, hour, minute, 0, 0, date.Location()), nil
}

// FormatDisplayTime renders t the way booking labels are stored, e.g. "9:30 AM".
func FormatDisplayTime(t time.Time) string {
	return t.Format("3:04 PM")
}
