package calendar

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("calendar: invalid config")

const (
	defaultAPIVersion = "2021-04-15"
	defaultTimeout    = 15 * time.Second
)

// SelectorKind names the legacy query parameter a Selector is sent as.
type SelectorKind string

const (
	SelectorCalendar SelectorKind = "calendarId"
	SelectorUser     SelectorKind = "userId"
	SelectorTeam     SelectorKind = "teamId"
)

// Selector scopes a legacy appointments query.
type Selector struct {
	Kind SelectorKind
	ID   string
}

// Config is the per-location credential and selector table for the external
// calendar. Every map is keyed by location id and backed by a single default.
type Config struct {
	BaseURL       string
	LegacyBaseURL string
	APIVersion    string
	Timeout       time.Duration

	DefaultToken string
	Tokens       map[string]string

	DefaultCalendarID string
	CalendarIDs       map[string]string
	DefaultUserID     string
	UserIDs           map[string]string
	DefaultTeamID     string
	TeamIDs           map[string]string
}

// Enabled reports whether an endpoint is configured at all.
func (c *Config) Enabled() bool {
	return c != nil && strings.TrimSpace(c.BaseURL) != ""
}

// WithDefaults fills the API version, timeout and legacy base URL.
func (c Config) WithDefaults() Config {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.LegacyBaseURL = strings.TrimRight(strings.TrimSpace(c.LegacyBaseURL), "/")
	if c.LegacyBaseURL == "" {
		c.LegacyBaseURL = c.BaseURL
	}
	if strings.TrimSpace(c.APIVersion) == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Validate checks URLs and rejects blank keys or values in the maps.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	for name, raw := range map[string]string{"base url": c.BaseURL, "legacy base url": c.LegacyBaseURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %s %q", ErrInvalidConfig, name, raw)
		}
	}
	for name, m := range map[string]map[string]string{
		"tokens":       c.Tokens,
		"calendar ids": c.CalendarIDs,
		"user ids":     c.UserIDs,
		"team ids":     c.TeamIDs,
	} {
		for loc, v := range m {
			if strings.TrimSpace(loc) == "" {
				return fmt.Errorf("%w: %s has a blank location id", ErrInvalidConfig, name)
			}
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: %s has a blank value for %s", ErrInvalidConfig, name, loc)
			}
		}
	}
	return nil
}

// TokenFor returns the access token for a location, falling back to the default.
func (c *Config) TokenFor(locationID string) string {
	if c == nil {
		return ""
	}
	return lookup(c.Tokens, locationID, c.DefaultToken)
}

// SelectorFor resolves the legacy selector for a location: calendar id first,
// then user id, then team id. ok is false when none is configured.
func (c *Config) SelectorFor(locationID string) (Selector, bool) {
	if c == nil {
		return Selector{}, false
	}
	if id := lookup(c.CalendarIDs, locationID, c.DefaultCalendarID); id != "" {
		return Selector{Kind: SelectorCalendar, ID: id}, true
	}
	if id := lookup(c.UserIDs, locationID, c.DefaultUserID); id != "" {
		return Selector{Kind: SelectorUser, ID: id}, true
	}
	if id := lookup(c.TeamIDs, locationID, c.DefaultTeamID); id != "" {
		return Selector{Kind: SelectorTeam, ID: id}, true
	}
	return Selector{}, false
}

func lookup(m map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(m[key]); v != "" {
		return v
	}
	return strings.TrimSpace(fallback)
}
