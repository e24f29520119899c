package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Statuses that never occupy a slot.
const (
	StatusCancelled = "cancelled"
	StatusRefused   = "refused"
)

var inactiveStatuses = []string{StatusCancelled, StatusRefused}

// Booking is an internal appointment as stored: a calendar date plus a
// separate human-readable time label.
type Booking struct {
	ID              string
	LocationID      string
	Date            time.Time
	TimeLabel       string
	DurationMinutes int
	Status          string
}

type bookingsDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository reads bookings from Postgres.
type Repository struct {
	db bookingsDB
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting mocks for tests.
func NewRepositoryWithDB(db bookingsDB) *Repository {
	return &Repository{db: db}
}

const listActiveForDayQuery = `SELECT id, location_id, booking_date, booking_time, duration_minutes, status
FROM bookings
WHERE location_id = $1 AND booking_date = $2 AND status <> ALL($3)
ORDER BY booking_time`

// ListActiveForDay returns the non-cancelled, non-refused bookings of a
// location on day's calendar date.
func (r *Repository) ListActiveForDay(ctx context.Context, locationID string, day time.Time) ([]Booking, error) {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	rows, err := r.db.Query(ctx, listActiveForDayQuery, locationID, date, inactiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("bookings: list for day: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.LocationID, &b.Date, &b.TimeLabel, &b.DurationMinutes, &b.Status); err != nil {
			return nil, fmt.Errorf("bookings: scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: rows: %w", err)
	}
	return out, nil
}
