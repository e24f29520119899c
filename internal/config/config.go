package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/wolfman30/spa-booking-platform/internal/calendar"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool
	AdminJWTSecret     string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	BookingsTimeout    time.Duration

	// External calendar
	CalendarConfigFile        string
	CalendarBaseURL           string
	CalendarLegacyBaseURL     string
	CalendarAPIVersion        string
	CalendarDefaultToken      string
	CalendarLocationTokens    string // JSON object: locationId -> token
	CalendarDefaultCalendarID string
	CalendarCalendarIDs       string // JSON object: locationId -> calendarId
	CalendarDefaultUserID     string
	CalendarUserIDs           string // JSON object: locationId -> userId
	CalendarDefaultTeamID     string
	CalendarTeamIDs           string // JSON object: locationId -> teamId
	CalendarFetchTimeout      time.Duration
}

// Load reads configuration from environment variables, after loading a local
// .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
		BookingsTimeout:    getEnvAsDuration("BOOKINGS_QUERY_TIMEOUT", 5*time.Second),

		CalendarConfigFile:        getEnv("CALENDAR_CONFIG_FILE", ""),
		CalendarBaseURL:           getEnv("CALENDAR_BASE_URL", ""),
		CalendarLegacyBaseURL:     getEnv("CALENDAR_LEGACY_BASE_URL", ""),
		CalendarAPIVersion:        getEnv("CALENDAR_API_VERSION", ""),
		CalendarDefaultToken:      getEnv("CALENDAR_DEFAULT_TOKEN", ""),
		CalendarLocationTokens:    getEnv("CALENDAR_LOCATION_TOKENS", ""),
		CalendarDefaultCalendarID: getEnv("CALENDAR_DEFAULT_CALENDAR_ID", ""),
		CalendarCalendarIDs:       getEnv("CALENDAR_CALENDAR_IDS", ""),
		CalendarDefaultUserID:     getEnv("CALENDAR_DEFAULT_USER_ID", ""),
		CalendarUserIDs:           getEnv("CALENDAR_USER_IDS", ""),
		CalendarDefaultTeamID:     getEnv("CALENDAR_DEFAULT_TEAM_ID", ""),
		CalendarTeamIDs:           getEnv("CALENDAR_TEAM_IDS", ""),
		CalendarFetchTimeout:      getEnvAsDuration("CALENDAR_FETCH_TIMEOUT", 10*time.Second),
	}
}

// calendarFile is the optional TOML credentials file. Environment values
// override it key by key.
type calendarFile struct {
	BaseURL           string                      `toml:"base_url"`
	LegacyBaseURL     string                      `toml:"legacy_base_url"`
	APIVersion        string                      `toml:"api_version"`
	DefaultToken      string                      `toml:"default_token"`
	DefaultCalendarID string                      `toml:"default_calendar_id"`
	DefaultUserID     string                      `toml:"default_user_id"`
	DefaultTeamID     string                      `toml:"default_team_id"`
	Locations         map[string]calendarLocation `toml:"locations"`
}

type calendarLocation struct {
	Token      string `toml:"token"`
	CalendarID string `toml:"calendar_id"`
	UserID     string `toml:"user_id"`
	TeamID     string `toml:"team_id"`
}

// CalendarConfig builds the external calendar configuration. An empty base
// URL leaves the integration disabled and is not an error.
func (c *Config) CalendarConfig() (*calendar.Config, error) {
	cal := &calendar.Config{
		Tokens:      map[string]string{},
		CalendarIDs: map[string]string{},
		UserIDs:     map[string]string{},
		TeamIDs:     map[string]string{},
	}

	if c.CalendarConfigFile != "" {
		var f calendarFile
		if _, err := toml.DecodeFile(c.CalendarConfigFile, &f); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", c.CalendarConfigFile, err)
		}
		cal.BaseURL = f.BaseURL
		cal.LegacyBaseURL = f.LegacyBaseURL
		cal.APIVersion = f.APIVersion
		cal.DefaultToken = f.DefaultToken
		cal.DefaultCalendarID = f.DefaultCalendarID
		cal.DefaultUserID = f.DefaultUserID
		cal.DefaultTeamID = f.DefaultTeamID
		for id, loc := range f.Locations {
			setIf(cal.Tokens, id, loc.Token)
			setIf(cal.CalendarIDs, id, loc.CalendarID)
			setIf(cal.UserIDs, id, loc.UserID)
			setIf(cal.TeamIDs, id, loc.TeamID)
		}
	}

	override(&cal.BaseURL, c.CalendarBaseURL)
	override(&cal.LegacyBaseURL, c.CalendarLegacyBaseURL)
	override(&cal.APIVersion, c.CalendarAPIVersion)
	override(&cal.DefaultToken, c.CalendarDefaultToken)
	override(&cal.DefaultCalendarID, c.CalendarDefaultCalendarID)
	override(&cal.DefaultUserID, c.CalendarDefaultUserID)
	override(&cal.DefaultTeamID, c.CalendarDefaultTeamID)
	cal.Timeout = c.CalendarFetchTimeout

	for key, pair := range map[string]struct {
		raw string
		dst map[string]string
	}{
		"CALENDAR_LOCATION_TOKENS": {c.CalendarLocationTokens, cal.Tokens},
		"CALENDAR_CALENDAR_IDS":    {c.CalendarCalendarIDs, cal.CalendarIDs},
		"CALENDAR_USER_IDS":        {c.CalendarUserIDs, cal.UserIDs},
		"CALENDAR_TEAM_IDS":        {c.CalendarTeamIDs, cal.TeamIDs},
	} {
		if err := mergeJSONMap(pair.raw, pair.dst); err != nil {
			return nil, fmt.Errorf("config: %s: %w", key, err)
		}
	}

	if !cal.Enabled() {
		return cal, nil
	}
	defaulted := cal.WithDefaults()
	if err := defaulted.Validate(); err != nil {
		return nil, err
	}
	return &defaulted, nil
}

func mergeJSONMap(raw string, dst map[string]string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return fmt.Errorf("invalid JSON object: %w", err)
	}
	for k, v := range m {
		dst[k] = v
	}
	return nil
}

func setIf(m map[string]string, key, value string) {
	if strings.TrimSpace(value) != "" {
		m[key] = value
	}
}

func override(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = value
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
