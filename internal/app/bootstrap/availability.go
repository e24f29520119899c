package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/spa-booking-platform/internal/availability"
	"github.com/wolfman30/spa-booking-platform/internal/bookings"
	"github.com/wolfman30/spa-booking-platform/internal/calendar"
	"github.com/wolfman30/spa-booking-platform/internal/catalog"
	appconfig "github.com/wolfman30/spa-booking-platform/internal/config"
	"github.com/wolfman30/spa-booking-platform/internal/location"
	"github.com/wolfman30/spa-booking-platform/internal/observability/metrics"
	"github.com/wolfman30/spa-booking-platform/pkg/logging"
)

// AvailabilityDeps are the connections the availability stack is built on.
type AvailabilityDeps struct {
	Redis    *redis.Client
	Pool     *pgxpool.Pool
	SQLDB    *sql.DB
	Registry prometheus.Registerer
}

// AvailabilityStack is the wired availability service and its admin store.
type AvailabilityStack struct {
	Service       *availability.Service
	LocationStore *location.Store
	Metrics       *metrics.AvailabilityMetrics
}

// BuildCalendarSource turns configuration into the external calendar chain.
func BuildCalendarSource(cfg *appconfig.Config, logger *logging.Logger) (calendar.Source, error) {
	if logger == nil {
		logger = logging.Default()
	}
	calCfg, err := cfg.CalendarConfig()
	if err != nil {
		return nil, err
	}
	if !calCfg.Enabled() {
		logger.Warn("external calendar not configured; availability will report it unavailable")
	}
	return calendar.NewDefaultSource(calCfg, logger), nil
}

// BuildAvailability wires stores, sources and metrics into an availability service.
func BuildAvailability(cfg *appconfig.Config, deps AvailabilityDeps, logger *logging.Logger) (*AvailabilityStack, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config required")
	}
	if deps.Redis == nil || deps.Pool == nil || deps.SQLDB == nil {
		return nil, errors.New("bootstrap: redis, postgres pool and sql db are required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	source, err := BuildCalendarSource(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: calendar config: %w", err)
	}

	locationStore := location.NewStore(deps.Redis)
	m := metrics.NewAvailabilityMetrics(deps.Registry)
	svc := availability.NewService(availability.ServiceConfig{
		Locations:       locationStore,
		Services:        catalog.NewRepository(deps.SQLDB),
		Bookings:        bookings.NewSource(bookings.NewRepository(deps.Pool), logger),
		Calendar:        source,
		CalendarTimeout: cfg.CalendarFetchTimeout,
		BookingsTimeout: cfg.BookingsTimeout,
		Metrics:         m,
		Logger:          logger,
	})
	return &AvailabilityStack{Service: svc, LocationStore: locationStore, Metrics: m}, nil
}
