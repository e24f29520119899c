package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store persists location records in Redis as JSON.
type Store struct {
	redis *redis.Client
}

// NewStore creates a new location store.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func (s *Store) key(locationID string) string {
	return fmt.Sprintf("location:config:%s", locationID)
}

// Get loads a location. A missing key is ErrLocationNotFound, never a default.
func (s *Store) Get(ctx context.Context, locationID string) (*Location, error) {
	data, err := s.redis.Get(ctx, s.key(locationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, locationID)
	}
	if err != nil {
		return nil, fmt.Errorf("location: get: %w", err)
	}

	var loc Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("location: unmarshal: %w", err)
	}
	if loc.ID == "" {
		loc.ID = locationID
	}
	return &loc, nil
}

// Set validates and saves a location.
func (s *Store) Set(ctx context.Context, loc *Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("location: marshal: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(loc.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("location: set: %w", err)
	}
	return nil
}
