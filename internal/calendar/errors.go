package calendar

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized marks authorization-class failures: rejected or invalid
// credentials. Only this class triggers the legacy fallback.
var ErrUnauthorized = errors.New("calendar: unauthorized")

// credentialSignatures are body fragments the vendor returns for bad
// credentials, sometimes with a 400 or 422 status instead of 401.
var credentialSignatures = []string{
	"invalid jwt",
	"invalid token",
	"invalid api key",
	"invalid access token",
	"token is expired",
	"unauthorized",
	"not authorized",
}

// APIError is a non-2xx response from the external calendar.
type APIError struct {
	Protocol   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar: %s API returned %d: %s", e.Protocol, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrUnauthorized) match authorization-class responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.unauthorized()
}

func (e *APIError) unauthorized() bool {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return true
	}
	if e.StatusCode < 400 || e.StatusCode >= 500 {
		return false
	}
	body := strings.ToLower(e.Body)
	for _, sig := range credentialSignatures {
		if strings.Contains(body, sig) {
			return true
		}
	}
	return false
}
