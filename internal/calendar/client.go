package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/spa-booking-platform/pkg/logging"
)

const (
	protocolPrimary = "primary"
	protocolLegacy  = "legacy"
	maxErrorBody    = 300
)

// Window is the inclusive time range an event query covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindow covers date from 00:00:00.000 through 23:59:59.999 in zone.
func DayWindow(date time.Time, zone *time.Location) Window {
	if zone == nil {
		zone = time.UTC
	}
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, zone)
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), zone)
	return Window{Start: start, End: end}
}

func (w Window) zone() *time.Location {
	if loc := w.Start.Location(); loc != nil {
		return loc
	}
	return time.UTC
}

// Client talks to both generations of the external calendar API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	legacyBaseURL string
	apiVersion    string
	logger        *logging.Logger
}

// NewClient constructs a calendar client from cfg after applying defaults.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       cfg.BaseURL,
		legacyBaseURL: cfg.LegacyBaseURL,
		apiVersion:    cfg.APIVersion,
		logger:        logger,
	}
}

// ListEvents queries the primary events endpoint for a location.
func (c *Client) ListEvents(ctx context.Context, token, locationID string, w Window) ([]Event, error) {
	q := url.Values{}
	q.Set("locationId", locationID)
	q.Set("startTime", epochMillis(w.Start))
	q.Set("endTime", epochMillis(w.End))
	endpoint := c.baseURL + "/calendars/events?" + q.Encode()

	body, err := c.get(ctx, protocolPrimary, token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events, err := decodeEvents(body, w.zone())
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListAppointments queries the legacy appointments endpoint scoped by sel.
func (c *Client) ListAppointments(ctx context.Context, token string, sel Selector, w Window) ([]Event, error) {
	q := url.Values{}
	q.Set(string(sel.Kind), sel.ID)
	q.Set("startDate", epochMillis(w.Start))
	q.Set("endDate", epochMillis(w.End))
	endpoint := c.legacyBaseURL + "/v1/appointments/?" + q.Encode()

	body, err := c.get(ctx, protocolLegacy, token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	events, err := decodeEvents(body, w.zone())
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return events, nil
}

func (c *Client) get(ctx context.Context, protocol, token, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if protocol == protocolPrimary {
		req.Header.Set("Version", c.apiVersion)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(respBody))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		c.logger.Warn("calendar API non-2xx response", "protocol", protocol, "status", resp.StatusCode, "body", msg)
		return nil, &APIError{Protocol: protocol, StatusCode: resp.StatusCode, Body: msg}
	}
	return respBody, nil
}

func epochMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
