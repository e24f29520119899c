package calendar

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_IsUnauthorized(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want bool
	}{
		{"401", &APIError{StatusCode: 401}, true},
		{"403", &APIError{StatusCode: 403, Body: "forbidden"}, true},
		{"400 invalid jwt body", &APIError{StatusCode: 400, Body: `{"message":"Invalid JWT"}`}, true},
		{"422 invalid api key body", &APIError{StatusCode: 422, Body: "Invalid API Key supplied"}, true},
		{"400 unrelated body", &APIError{StatusCode: 400, Body: "startTime is required"}, false},
		{"404", &APIError{StatusCode: 404, Body: "not found"}, false},
		{"500 with unauthorized text", &APIError{StatusCode: 500, Body: "upstream unauthorized"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("list events: %w", tt.err)
			if got := errors.Is(wrapped, ErrUnauthorized); got != tt.want {
				t.Fatalf("errors.Is(ErrUnauthorized) = %v, want %v", got, tt.want)
			}
		})
	}
}
