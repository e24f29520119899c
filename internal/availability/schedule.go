package availability

import (
	"context"
	"time"

	"github.com/wolfman30/spa-booking-platform/internal/location"
)

type locationReader interface {
	Get(ctx context.Context, locationID string) (*location.Location, error)
}

// Schedule is the resolved opening window for one location and date.
type Schedule struct {
	Location *location.Location
	Date     time.Time // midnight in the location's zone
	Day      string
	Hours    location.DayHours
	Closed   bool
	Reason   string
}

// ResolveSchedule loads the location and picks the hours for date. A missing
// location is an error; a closed day is not.
func ResolveSchedule(ctx context.Context, locations locationReader, locationID string, date time.Time) (*Schedule, error) {
	loc, err := locations.Get(ctx, locationID)
	if err != nil {
		return nil, err
	}
	zone := loc.Zone()
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, zone)

	hours, reason := loc.HoursFor(day)
	return &Schedule{
		Location: loc,
		Date:     day,
		Day:      location.WeekdayName(day.Weekday()),
		Hours:    hours,
		Closed:   reason != "",
		Reason:   reason,
	}, nil
}
