package availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/spa-booking-platform/internal/catalog"
	"github.com/wolfman30/spa-booking-platform/internal/location"
	"github.com/wolfman30/spa-booking-platform/pkg/logging"
)

type resolver interface {
	Resolve(ctx context.Context, req Request) (*Result, error)
}

// Handler serves availability lookups.
type Handler struct {
	resolver resolver
	logger   *logging.Logger
}

// NewHandler creates a new availability HTTP handler.
func NewHandler(resolver resolver, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{resolver: resolver, logger: logger}
}

// Routes returns a chi router with the availability routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetAvailability)
	return r
}

// GetAvailability returns free slots for a location, date and service.
// GET /api/availability?locationId=&date=&serviceId=
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := Request{
		LocationID: q.Get("locationId"),
		Date:       q.Get("date"),
		ServiceID:  q.Get("serviceId"),
	}

	res, err := h.resolver.Resolve(r.Context(), req)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, res)
}

func (h *Handler) writeError(w http.ResponseWriter, req Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, location.ErrLocationNotFound):
		http.Error(w, `{"error": "location not found"}`, http.StatusNotFound)
	case errors.Is(err, catalog.ErrServiceNotFound):
		http.Error(w, `{"error": "service not found"}`, http.StatusNotFound)
	case errors.Is(err, ErrExternalCalendar):
		http.Error(w, `{"error": "external calendar unavailable"}`, http.StatusBadGateway)
	default:
		h.logger.Error("availability request failed",
			"location_id", req.LocationID, "service_id", req.ServiceID, "date", req.Date, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, logger *logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
