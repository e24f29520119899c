// Package catalog reads bookable services.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	// ErrServiceNotFound is returned when no service matches the id.
	ErrServiceNotFound = errors.New("catalog: service not found")

	// ErrInvalidDuration is returned for services stored with a non-positive duration.
	ErrInvalidDuration = errors.New("catalog: service duration must be positive")
)

// Service is a bookable treatment.
type Service struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration"`
	LocationIDs     []string `json:"locationIds"`
}

// Repository loads services from Postgres through database/sql.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a catalog repository on db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns a service by id.
func (r *Repository) Get(ctx context.Context, serviceID string) (*Service, error) {
	query, args, err := psql.
		Select("id", "name", "duration_minutes", "location_ids").
		From("services").
		Where(sq.Eq{"id": serviceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("catalog: build query: %w", err)
	}

	var s Service
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.Name, &s.DurationMinutes, pq.Array(&s.LocationIDs))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get service: %w", err)
	}
	if s.LocationIDs == nil {
		s.LocationIDs = []string{}
	}
	return &s, nil
}

// DurationMinutes returns the positive duration of a service.
func (r *Repository) DurationMinutes(ctx context.Context, serviceID string) (int, error) {
	s, err := r.Get(ctx, serviceID)
	if err != nil {
		return 0, err
	}
	if s.DurationMinutes <= 0 {
		return 0, fmt.Errorf("%w: %s has %d", ErrInvalidDuration, serviceID, s.DurationMinutes)
	}
	return s.DurationMinutes, nil
}
