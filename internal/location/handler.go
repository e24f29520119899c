package location

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/spa-booking-platform/pkg/logging"
)

type locationStore interface {
	Get(ctx context.Context, locationID string) (*Location, error)
	Set(ctx context.Context, loc *Location) error
}

// Handler serves the admin endpoints for a location's business hours.
type Handler struct {
	store  locationStore
	logger *logging.Logger
}

// NewHandler creates a new location admin HTTP handler.
func NewHandler(store locationStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Routes returns a chi router with the location admin routes. mw runs inside
// the {locationID} scope so it can read the URL param.
func (h *Handler) Routes(mw ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/{locationID}", func(r chi.Router) {
		r.Use(mw...)
		r.Get("/hours", h.GetHours)
		r.Put("/hours", h.UpdateHours)
	})
	return r
}

// UpdateHoursRequest is the body of PUT /admin/locations/{locationID}/hours.
// Name and Timezone are optional; BusinessHours replaces the whole table.
type UpdateHoursRequest struct {
	Name          string     `json:"name,omitempty"`
	Timezone      string     `json:"timezone,omitempty"`
	BusinessHours []DayHours `json:"businessHours"`
}

// GetHours returns the stored location record.
// GET /admin/locations/{locationID}/hours
func (h *Handler) GetHours(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")
	if locationID == "" {
		http.Error(w, `{"error": "location_id required"}`, http.StatusBadRequest)
		return
	}

	loc, err := h.store.Get(r.Context(), locationID)
	if errors.Is(err, ErrLocationNotFound) {
		http.Error(w, `{"error": "location not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get location", "location_id", locationID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, loc)
}

// UpdateHours creates or replaces a location's business-hours table.
// PUT /admin/locations/{locationID}/hours
func (h *Handler) UpdateHours(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")
	if locationID == "" {
		http.Error(w, `{"error": "location_id required"}`, http.StatusBadRequest)
		return
	}

	var req UpdateHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	loc, err := h.store.Get(r.Context(), locationID)
	switch {
	case errors.Is(err, ErrLocationNotFound):
		loc = &Location{ID: locationID}
	case err != nil:
		h.logger.Error("failed to get location", "location_id", locationID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	if req.Name != "" {
		loc.Name = req.Name
	}
	if req.Timezone != "" {
		loc.Timezone = req.Timezone
	}
	loc.BusinessHours = req.BusinessHours

	if err := h.store.Set(r.Context(), loc); err != nil {
		if errors.Is(err, ErrInvalidHours) {
			writeJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("failed to save location", "location_id", locationID, "error", err)
		http.Error(w, `{"error": "failed to save location"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("location hours updated", "location_id", locationID, "days", len(loc.BusinessHours))
	writeJSON(w, h.logger, http.StatusOK, loc)
}

func writeJSON(w http.ResponseWriter, logger *logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
