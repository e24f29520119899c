package availability

import "errors"

var (
	// ErrInvalidRequest is returned for missing ids or a malformed date.
	ErrInvalidRequest = errors.New("availability: invalid request")

	// ErrInvalidSchedule is returned when hours or duration cannot produce a grid.
	ErrInvalidSchedule = errors.New("availability: invalid schedule")

	// ErrExternalCalendar wraps any external calendar failure that is not
	// authorization-shaped. It fails the whole request.
	ErrExternalCalendar = errors.New("availability: external calendar failure")
)
