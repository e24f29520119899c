package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/spa-booking-platform/internal/bookings"
)

const (
	// SlotStep is the spacing between candidate start times. It does not
	// depend on service duration, so a 90 minute service is still offered
	// every 30 minutes and offered slots may overlap each other.
	SlotStep = 30 * time.Minute

	// MaxSlotIterations bounds the grid walk regardless of configured hours.
	MaxSlotIterations = 100
)

// CandidateSlot is one bookable start time. End is Start plus the service duration.
type CandidateSlot struct {
	Label string
	Start time.Time
	End   time.Time
}

// GenerateSlots walks from openTime in SlotStep increments and keeps every
// start whose end fits at or before closeTime. Times are "HH:MM" in date's
// location. A closeTime at or before openTime yields no slots.
func GenerateSlots(openTime, closeTime string, durationMinutes int, date time.Time) ([]CandidateSlot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration %d minutes", ErrInvalidSchedule, durationMinutes)
	}
	open, err := clockOn(date, openTime)
	if err != nil {
		return nil, err
	}
	closing, err := clockOn(date, closeTime)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	slots := make([]CandidateSlot, 0)
	seen := make(map[string]struct{})
	start := open
	for i := 0; i < MaxSlotIterations; i++ {
		end := start.Add(duration)
		if end.After(closing) {
			break
		}
		label := bookings.FormatDisplayTime(start)
		if _, dup := seen[label]; !dup {
			seen[label] = struct{}{}
			slots = append(slots, CandidateSlot{Label: label, Start: start, End: end})
		}
		start = start.Add(SlotStep)
	}
	return slots, nil
}

func clockOn(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidSchedule, clock)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// Labels returns the slot labels in order.
func Labels(slots []CandidateSlot) []string {
	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Label)
	}
	return labels
}
