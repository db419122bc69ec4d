package weather

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sayan-Mondal2022/travAi/internal/api/geo"
)

type Handler struct {
	logger   *slog.Logger
	service  Service
	geocoder geo.Geocoder
}

func NewWeatherHandler(service Service, geocoder geo.Geocoder, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		geocoder: geocoder,
	}
}

// GetCurrent handles GET /weather/current?destination=... - resolves the
// destination and returns flattened current conditions.
func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "GetCurrent")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetCurrent"))

	destination := strings.TrimSpace(r.URL.Query().Get("destination"))
	if destination == "" {
		span.SetStatus(codes.Error, "Missing destination")
		http.Error(w, "destination is required", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("destination", destination))

	coords, _, err := h.geocoder.Geocode(ctx, destination)
	if err != nil {
		l.WarnContext(ctx, "Failed to resolve destination",
			slog.String("destination", destination), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Destination could not be resolved")
		http.Error(w, "destination could not be resolved", http.StatusNotFound)
		return
	}

	current, err := h.service.GetCurrent(ctx, coords.Lat, coords.Lng)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch current conditions",
			slog.String("destination", destination), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Weather source failed")
		http.Error(w, "Failed to fetch current conditions", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(current); err != nil {
		l.ErrorContext(ctx, "Failed to encode response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "JSON encoding failed")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	span.SetStatus(codes.Ok, "Current conditions returned")
}
