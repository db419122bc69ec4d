package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sayan-Mondal2022/travAi/internal/api/parser"
	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewItineraryHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// GeneratePlan handles POST /itinerary - builds a full trip plan
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GeneratePlan")
	defer span.End()

	l := h.logger.With(slog.String("method", "GeneratePlan"))

	var req models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Destination == "" {
		l.WarnContext(ctx, "Missing destination")
		span.SetStatus(codes.Error, "Missing destination")
		http.Error(w, "destination is required", http.StatusBadRequest)
		return
	}

	l.InfoContext(ctx, "Generating itinerary",
		slog.String("destination", req.Destination),
		slog.Int("days", req.DurationDays))

	doc, err := h.service.GeneratePlan(ctx, req)
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			l.ErrorContext(ctx, "Model response could not be parsed", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Unparseable model response")
			http.Error(w, "Generated itinerary could not be parsed", http.StatusBadGateway)
			return
		}
		l.ErrorContext(ctx, "Failed to generate itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		http.Error(w, "Failed to generate itinerary", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, span, l, doc)
	l.InfoContext(ctx, "Successfully returned itinerary", slog.String("destination", req.Destination))
	span.SetStatus(codes.Ok, "Itinerary returned successfully")
}

type refineRequest struct {
	Itinerary *models.ItineraryDocument `json:"itinerary"`
	Feedback  string                    `json:"feedback"`
}

// RefinePlan handles POST /itinerary/refine - regenerates a plan with feedback
func (h *Handler) RefinePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "RefinePlan")
	defer span.End()

	l := h.logger.With(slog.String("method", "RefinePlan"))

	var req refineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Itinerary == nil || req.Feedback == "" {
		http.Error(w, "itinerary and feedback are required", http.StatusBadRequest)
		return
	}

	doc, err := h.service.RefinePlan(ctx, req.Itinerary, req.Feedback)
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			l.ErrorContext(ctx, "Model response could not be parsed", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Unparseable model response")
			http.Error(w, "Refined itinerary could not be parsed", http.StatusBadGateway)
			return
		}
		l.ErrorContext(ctx, "Failed to refine itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		http.Error(w, "Failed to refine itinerary", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, span, l, doc)
	span.SetStatus(codes.Ok, "Refined itinerary returned successfully")
}

// CacheStats handles GET /itinerary/cache/stats
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "CacheStats")
	defer span.End()

	stats := h.service.CacheStats(ctx)
	writeJSON(ctx, w, span, h.logger, stats)
	span.SetStatus(codes.Ok, "Cache stats returned")
}

// ClearCache handles DELETE /itinerary/cache
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "ClearCache")
	defer span.End()

	h.service.ClearCache(ctx)
	h.logger.InfoContext(ctx, "Cache cleared")
	w.WriteHeader(http.StatusNoContent)
	span.SetStatus(codes.Ok, "Cache cleared")
}

func writeJSON(ctx context.Context, w http.ResponseWriter, span trace.Span, l *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		l.ErrorContext(ctx, "Failed to encode response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "JSON encoding failed")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
