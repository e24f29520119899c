package calendar

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/spa-booking-platform/pkg/logging"
)

var calendarTracer = otel.Tracer("medspa.internal.calendar")

const (
	SourcePrimary = protocolPrimary
	SourceLegacy  = protocolLegacy
)

// Unavailable reasons.
const (
	ReasonNoToken        = "no access token configured"
	ReasonNoSelector     = "no calendar selector configured"
	ReasonLegacyRejected = "legacy credentials rejected"
	ReasonNotConfigured  = "external calendar not configured"
	ReasonFetchTimedOut  = "external calendar timed out"
	ReasonFetchCancelled = "external calendar request cancelled"
)

// FetchResult is the outcome of one external fetch. When Unavailable is set
// Events is empty and Reason says why.
type FetchResult struct {
	Events      []Event
	Source      string
	Unavailable bool
	Reason      string
}

// UnavailableResult builds a degraded result.
func UnavailableResult(reason string) *FetchResult {
	return &FetchResult{Unavailable: true, Reason: reason}
}

// Source fetches external busy events for a location and window.
type Source interface {
	FetchEvents(ctx context.Context, locationID string, window Window) (*FetchResult, error)
}

type eventLister interface {
	ListEvents(ctx context.Context, token, locationID string, w Window) ([]Event, error)
}

type appointmentLister interface {
	ListAppointments(ctx context.Context, token string, sel Selector, w Window) ([]Event, error)
}

// PrimarySource reads the current events API.
type PrimarySource struct {
	api eventLister
	cfg *Config
}

// NewPrimarySource constructs a PrimarySource.
func NewPrimarySource(api eventLister, cfg *Config) *PrimarySource {
	return &PrimarySource{api: api, cfg: cfg}
}

// FetchEvents returns an unavailable result without calling out when the
// location has no token. Errors are returned unmodified.
func (s *PrimarySource) FetchEvents(ctx context.Context, locationID string, window Window) (*FetchResult, error) {
	token := s.cfg.TokenFor(locationID)
	if token == "" {
		return UnavailableResult(ReasonNoToken), nil
	}

	ctx, span := calendarTracer.Start(ctx, "calendar.primary.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("medspa.location_id", locationID))

	events, err := s.api.ListEvents(ctx, token, locationID, window)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("medspa.calendar.event_count", len(events)))
	return &FetchResult{Events: events, Source: SourcePrimary}, nil
}

// LegacySource reads the legacy appointments API.
type LegacySource struct {
	api appointmentLister
	cfg *Config
}

// NewLegacySource constructs a LegacySource.
func NewLegacySource(api appointmentLister, cfg *Config) *LegacySource {
	return &LegacySource{api: api, cfg: cfg}
}

// FetchEvents needs both a token and a selector; missing either yields an
// unavailable result.
func (s *LegacySource) FetchEvents(ctx context.Context, locationID string, window Window) (*FetchResult, error) {
	sel, ok := s.cfg.SelectorFor(locationID)
	if !ok {
		return UnavailableResult(ReasonNoSelector), nil
	}
	token := s.cfg.TokenFor(locationID)
	if token == "" {
		return UnavailableResult(ReasonNoToken), nil
	}

	ctx, span := calendarTracer.Start(ctx, "calendar.legacy.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("medspa.location_id", locationID),
		attribute.String("medspa.calendar.selector", string(sel.Kind)),
	)

	events, err := s.api.ListAppointments(ctx, token, sel, window)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("medspa.calendar.event_count", len(events)))
	return &FetchResult{Events: events, Source: SourceLegacy}, nil
}

// FallbackSource tries primary and retries against legacy only when primary
// rejects the credentials.
type FallbackSource struct {
	primary Source
	legacy  Source
	logger  *logging.Logger
}

// NewFallbackSource constructs a FallbackSource.
func NewFallbackSource(primary, legacy Source, logger *logging.Logger) *FallbackSource {
	if primary == nil || legacy == nil {
		panic("calendar: primary and legacy sources required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackSource{primary: primary, legacy: legacy, logger: logger}
}

// NewDefaultSource wires the HTTP client into a primary-then-legacy chain, or
// a permanently unavailable source when no endpoint is configured.
func NewDefaultSource(cfg *Config, logger *logging.Logger) Source {
	if !cfg.Enabled() {
		return UnavailableSource{Reason: ReasonNotConfigured}
	}
	client := NewClient(*cfg, logger)
	return NewFallbackSource(NewPrimarySource(client, cfg), NewLegacySource(client, cfg), logger)
}

func (s *FallbackSource) FetchEvents(ctx context.Context, locationID string, window Window) (*FetchResult, error) {
	res, err := s.primary.FetchEvents(ctx, locationID, window)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, ErrUnauthorized) {
		return nil, err
	}

	s.logger.Warn("primary calendar rejected credentials, falling back to legacy",
		"location_id", locationID, "error", err)

	res, err = s.legacy.FetchEvents(ctx, locationID, window)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			s.logger.Warn("legacy calendar rejected credentials", "location_id", locationID, "error", err)
			return UnavailableResult(ReasonLegacyRejected), nil
		}
		return nil, err
	}
	return res, nil
}

// UnavailableSource always reports the same unavailable reason.
type UnavailableSource struct {
	Reason string
}

func (s UnavailableSource) FetchEvents(context.Context, string, Window) (*FetchResult, error) {
	return UnavailableResult(s.Reason), nil
}
