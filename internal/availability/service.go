package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/spa-booking-platform/internal/bookings"
	"github.com/wolfman30/spa-booking-platform/internal/calendar"
	"github.com/wolfman30/spa-booking-platform/internal/observability/metrics"
	"github.com/wolfman30/spa-booking-platform/pkg/logging"
)

var availabilityTracer = otel.Tracer("medspa.internal.availability")

const (
	dateLayout             = "2006-01-02"
	defaultCalendarTimeout = 10 * time.Second
	defaultBookingsTimeout = 5 * time.Second
)

type durationReader interface {
	DurationMinutes(ctx context.Context, serviceID string) (int, error)
}

type busySource interface {
	BusyForDay(ctx context.Context, locationID string, day time.Time) ([]bookings.Interval, error)
}

// Request identifies one availability lookup.
type Request struct {
	LocationID string
	Date       string // YYYY-MM-DD in the location's calendar
	ServiceID  string
}

// Hours is the opening window echoed back with the slots.
type Hours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Metadata lets callers tell "no conflicts" apart from "external calendar
// was not consulted".
type Metadata struct {
	LocalBookingsCount        int    `json:"localBookingsCount"`
	ExternalBookingsCount     int    `json:"externalBookingsCount"`
	ExternalSourceUnavailable bool   `json:"externalSourceUnavailable"`
	ExternalSource            string `json:"externalSource,omitempty"`
	ExternalUnavailableReason string `json:"externalUnavailableReason,omitempty"`
}

// Result is the availability payload. Closed days carry only Slots, Day and Reason.
type Result struct {
	Slots    []string  `json:"slots"`
	Day      string    `json:"day,omitempty"`
	Hours    *Hours    `json:"hours,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}

// ServiceConfig wires the collaborators of a Service.
type ServiceConfig struct {
	Locations       locationReader
	Services        durationReader
	Bookings        busySource
	Calendar        calendar.Source
	CalendarTimeout time.Duration
	BookingsTimeout time.Duration
	Metrics         *metrics.AvailabilityMetrics
	Logger          *logging.Logger
}

// Service resolves free slots for a location, date and service.
//
// Resolution is read-only. Two concurrent calls can both report a slot as
// free; the booking write must enforce uniqueness itself.
type Service struct {
	locations       locationReader
	services        durationReader
	bookings        busySource
	calendar        calendar.Source
	calendarTimeout time.Duration
	bookingsTimeout time.Duration
	metrics         *metrics.AvailabilityMetrics
	logger          *logging.Logger
}

// NewService creates an availability service from cfg. It panics when a
// required collaborator is missing.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Locations == nil || cfg.Services == nil || cfg.Bookings == nil {
		panic("availability: locations, services and bookings are required")
	}
	if cfg.Calendar == nil {
		cfg.Calendar = calendar.UnavailableSource{Reason: calendar.ReasonNotConfigured}
	}
	if cfg.CalendarTimeout <= 0 {
		cfg.CalendarTimeout = defaultCalendarTimeout
	}
	if cfg.BookingsTimeout <= 0 {
		cfg.BookingsTimeout = defaultBookingsTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		locations:       cfg.Locations,
		services:        cfg.Services,
		bookings:        cfg.Bookings,
		calendar:        cfg.Calendar,
		calendarTimeout: cfg.CalendarTimeout,
		bookingsTimeout: cfg.BookingsTimeout,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
	}
}

// Resolve computes the free slots for req. Cancelling ctx aborts the external
// calendar fetch, which then counts as unavailable; the internal bookings
// fetch runs to completion.
func (s *Service) Resolve(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	res, err := s.resolve(ctx, req)

	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case res.Reason != "":
		outcome = metrics.OutcomeClosed
	case res.Metadata != nil && res.Metadata.ExternalSourceUnavailable:
		outcome = metrics.OutcomeDegraded
	}
	s.metrics.ObserveRequest(outcome, time.Since(started).Seconds())
	return res, err
}

func (s *Service) resolve(ctx context.Context, req Request) (*Result, error) {
	ctx, span := availabilityTracer.Start(ctx, "availability.resolve")
	defer span.End()

	date, err := req.validate()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("medspa.location_id", req.LocationID),
		attribute.String("medspa.service_id", req.ServiceID),
		attribute.String("medspa.date", req.Date),
	)
	logger := s.logger.With("location_id", req.LocationID, "service_id", req.ServiceID, "date", req.Date)

	sched, err := ResolveSchedule(ctx, s.locations, req.LocationID, date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if sched.Closed {
		span.SetAttributes(attribute.String("medspa.closed_reason", sched.Reason))
		return &Result{Slots: []string{}, Day: sched.Day, Reason: sched.Reason}, nil
	}

	duration, err := s.services.DurationMinutes(ctx, req.ServiceID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	candidates, err := GenerateSlots(sched.Hours.OpenTime, sched.Hours.CloseTime, duration, sched.Date)
	if err != nil {
		span.RecordError(err)
		logger.Error("location hours cannot produce a slot grid", "error", err)
		return nil, err
	}

	var (
		internal []BusyInterval
		external []BusyInterval
		fetch    *calendar.FetchResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Detached from caller cancellation but still bounded.
		bctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), s.bookingsTimeout)
		defer cancel()
		busy, err := s.bookings.BusyForDay(bctx, req.LocationID, sched.Date)
		if err != nil {
			return err
		}
		internal = fromBookings(busy)
		return nil
	})
	g.Go(func() error {
		res, err := s.fetchExternal(gctx, req.LocationID, sched, logger)
		if err != nil {
			return err
		}
		fetch = res
		external = fromEvents(res.Events)
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		logger.Error("availability resolution failed", "error", err)
		return nil, err
	}

	free := FilterConflicts(candidates, internal, external)
	meta := &Metadata{
		LocalBookingsCount:        len(internal),
		ExternalBookingsCount:     len(external),
		ExternalSourceUnavailable: fetch.Unavailable,
		ExternalSource:            fetch.Source,
		ExternalUnavailableReason: fetch.Reason,
	}
	span.SetAttributes(
		attribute.Int("medspa.candidate_slots", len(candidates)),
		attribute.Int("medspa.free_slots", len(free)),
		attribute.Bool("medspa.external_unavailable", fetch.Unavailable),
	)

	return &Result{
		Slots:    Labels(free),
		Day:      sched.Day,
		Hours:    &Hours{Open: sched.Hours.OpenTime, Close: sched.Hours.CloseTime},
		Metadata: meta,
	}, nil
}

// fetchExternal bounds the calendar call by calendarTimeout. A deadline or
// cancellation of that call degrades to unavailable; other failures are hard.
func (s *Service) fetchExternal(ctx context.Context, locationID string, sched *Schedule, logger *logging.Logger) (*calendar.FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.calendarTimeout)
	defer cancel()

	window := calendar.DayWindow(sched.Date, sched.Date.Location())
	res, err := s.calendar.FetchEvents(ctx, locationID, window)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			reason := calendar.ReasonFetchCancelled
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				reason = calendar.ReasonFetchTimedOut
			}
			logger.Warn("external calendar fetch aborted", "reason", reason, "error", err)
			s.metrics.ObserveCalendarFetch("", "unavailable")
			return calendar.UnavailableResult(reason), nil
		}
		s.metrics.ObserveCalendarFetch("", "error")
		return nil, fmt.Errorf("%w: %w", ErrExternalCalendar, err)
	}
	if res == nil {
		res = &calendar.FetchResult{}
	}

	if res.Unavailable {
		logger.Warn("external calendar unavailable", "reason", res.Reason)
		s.metrics.ObserveCalendarFetch(res.Source, "unavailable")
		res.Events = nil
	} else {
		s.metrics.ObserveCalendarFetch(res.Source, "ok")
	}
	return res, nil
}

func (r Request) validate() (time.Time, error) {
	var missing []string
	if strings.TrimSpace(r.LocationID) == "" {
		missing = append(missing, "locationId")
	}
	if strings.TrimSpace(r.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(r.ServiceID) == "" {
		missing = append(missing, "serviceId")
	}
	if len(missing) > 0 {
		return time.Time{}, fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return date, nil
}

func fromBookings(busy []bookings.Interval) []BusyInterval {
	out := make([]BusyInterval, 0, len(busy))
	for _, b := range busy {
		out = append(out, BusyInterval{Start: b.Start, End: b.End, Source: SourceInternal})
	}
	return out
}

func fromEvents(events []calendar.Event) []BusyInterval {
	out := make([]BusyInterval, 0, len(events))
	for _, e := range events {
		out = append(out, BusyInterval{Start: e.Start, End: e.End, Source: SourceExternal})
	}
	return out
}
