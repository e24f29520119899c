package bookings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/spa-booking-platform/pkg/logging"
)

var bookingsTracer = otel.Tracer("medspa.internal.bookings")

// Interval is the busy window one booking occupies.
type Interval struct {
	BookingID string
	Start     time.Time
	End       time.Time
}

type bookingLister interface {
	ListActiveForDay(ctx context.Context, locationID string, day time.Time) ([]Booking, error)
}

// Source turns stored bookings into busy intervals.
type Source struct {
	repo   bookingLister
	logger *logging.Logger
}

// NewSource constructs a booking source.
func NewSource(repo bookingLister, logger *logging.Logger) *Source {
	if repo == nil {
		panic("bookings: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Source{repo: repo, logger: logger}
}

// BusyForDay returns one interval per active booking on day. day's location
// is the zone the stored labels are interpreted in. A label that cannot be
// parsed fails the whole call so a conflict is never dropped silently.
func (s *Source) BusyForDay(ctx context.Context, locationID string, day time.Time) ([]Interval, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.busy_for_day")
	defer span.End()
	span.SetAttributes(
		attribute.String("medspa.location_id", locationID),
		attribute.String("medspa.date", day.Format("2006-01-02")),
	)

	rows, err := s.repo.ListActiveForDay(ctx, locationID, day)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	intervals := make([]Interval, 0, len(rows))
	for _, b := range rows {
		if isInactive(b.Status) {
			continue
		}
		start, err := ParseDisplayTime(b.TimeLabel, day)
		if err != nil {
			span.RecordError(err)
			s.logger.Error("booking has unparseable time label",
				"location_id", locationID, "booking_id", b.ID, "time_label", b.TimeLabel)
			return nil, fmt.Errorf("booking %s: %w", b.ID, err)
		}
		intervals = append(intervals, Interval{
			BookingID: b.ID,
			Start:     start,
			End:       start.Add(time.Duration(b.DurationMinutes) * time.Minute),
		})
	}
	span.SetAttributes(attribute.Int("medspa.busy_count", len(intervals)))
	return intervals, nil
}

func isInactive(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	return s == StatusCancelled || s == StatusRefused
}
