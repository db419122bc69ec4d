package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sayan-Mondal2022/travAi/app/observability/metrics"
	generativeAI "github.com/Sayan-Mondal2022/travAi/internal/api/generative_ai"
	"github.com/Sayan-Mondal2022/travAi/internal/api/parser"
	"github.com/Sayan-Mondal2022/travAi/internal/api/places"
	"github.com/Sayan-Mondal2022/travAi/internal/api/weather"
	"github.com/Sayan-Mondal2022/travAi/internal/cache"
	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service is the plan-construction entry point. GeneratePlan runs the full
// aggregation pipeline; RefinePlan produces a new document from an existing
// one plus feedback, never mutating the original.
type Service interface {
	GeneratePlan(ctx context.Context, req models.PlanRequest) (*models.ItineraryDocument, error)
	RefinePlan(ctx context.Context, prior *models.ItineraryDocument, feedback string) (*models.ItineraryDocument, error)
	CacheStats(ctx context.Context) cache.Stats
	ClearCache(ctx context.Context)
}

type ServiceImpl struct {
	logger     *slog.Logger
	placesSvc  places.Service
	weatherSvc weather.Service
	generator  generativeAI.Generator
	parser     *parser.Parser
	cache      *cache.TieredCache
	cacheTTL   time.Duration
}

func NewService(placesSvc places.Service, weatherSvc weather.Service, generator generativeAI.Generator, itineraryParser *parser.Parser, tiered *cache.TieredCache, cacheTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		placesSvc:  placesSvc,
		weatherSvc: weatherSvc,
		generator:  generator,
		parser:     itineraryParser,
		cache:      tiered,
		cacheTTL:   cacheTTL,
	}
}

// GeneratePlan assembles candidate places and weather, builds the day-wise
// plan, calls the generative model and validates its output. Source
// failures degrade to empty pools; only model failure or an unparseable
// response surfaces as an error.
func (s *ServiceImpl) GeneratePlan(ctx context.Context, req models.PlanRequest) (*models.ItineraryDocument, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GeneratePlan")
	defer span.End()
	span.SetAttributes(
		attribute.String("destination", req.Destination),
		attribute.Int("days", req.DurationDays),
	)

	start := time.Now()
	defer func() {
		metrics.RecordPlanBuildDuration(ctx, time.Since(start).Seconds())
	}()

	key := cache.BuildRequestKey(requestKeyParams(req))
	if payload, ok := s.cache.Get(ctx, key); ok {
		var doc models.ItineraryDocument
		if err := json.Unmarshal(payload, &doc); err == nil {
			s.logger.InfoContext(ctx, "Returning cached itinerary",
				slog.String("destination", req.Destination))
			return &doc, nil
		}
		s.logger.WarnContext(ctx, "Discarding undecodable cached itinerary", slog.String("key", key))
	}

	days := req.DurationDays
	if days < 1 {
		days = 1
	}
	req.DurationDays = days

	reference, coords, err := s.placesSvc.GetPreferencePlaces(ctx, req.Destination, req.TravelStyle, req.Preferences)
	if err != nil {
		// The places service degrades internally; an error here means
		// even degraded aggregation was impossible.
		span.RecordError(err)
		span.SetStatus(codes.Error, "place aggregation failed")
		return nil, fmt.Errorf("aggregating places: %w", err)
	}

	var forecast *models.Forecast
	if coords != nil {
		forecast, err = s.weatherSvc.GetForecast(ctx, coords.Lat, coords.Lng, days)
		if err != nil {
			s.logger.WarnContext(ctx, "Forecast fetch failed, continuing without weather",
				slog.Any("error", err))
			metrics.RecordSourceFetchError(ctx, "weather")
			forecast = nil
		}
	}

	plans := BuildDayPlans(*reference, req.Preferences, days)
	prompt := generativeAI.BuildItineraryPrompt(req, plans, forecast)

	raw, err := s.generator.GenerateItinerary(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return nil, fmt.Errorf("generating itinerary: %w", err)
	}

	doc, err := s.parser.ParseItinerary(ctx, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "response validation failed")
		return nil, err
	}
	doc.Metadata.PlanID = uuid.NewString()

	if payload, err := json.Marshal(doc); err == nil {
		s.cache.Set(ctx, key, payload, s.cacheTTL)
	} else {
		s.logger.WarnContext(ctx, "Failed to encode itinerary for caching", slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "Generated itinerary",
		slog.String("destination", req.Destination),
		slog.Int("days", len(doc.DailySchedule)),
		slog.Float64("confidence", doc.Metadata.ConfidenceScore))
	return doc, nil
}

// RefinePlan regenerates an itinerary with traveler feedback folded in.
// The prior document is left untouched and refinements are not cached.
func (s *ServiceImpl) RefinePlan(ctx context.Context, prior *models.ItineraryDocument, feedback string) (*models.ItineraryDocument, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "RefinePlan")
	defer span.End()

	prompt := generativeAI.BuildRefinePrompt(prior, feedback)
	raw, err := s.generator.GenerateItinerary(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return nil, fmt.Errorf("refining itinerary: %w", err)
	}
	doc, err := s.parser.ParseItinerary(ctx, raw)
	if err != nil {
		return nil, err
	}
	doc.Metadata.PlanID = uuid.NewString()
	return doc, nil
}

func (s *ServiceImpl) CacheStats(ctx context.Context) cache.Stats {
	return s.cache.Stats(ctx)
}

func (s *ServiceImpl) ClearCache(ctx context.Context) {
	s.cache.Clear(ctx)
}

// requestKeyParams maps the request onto the cache key allow-list.
func requestKeyParams(req models.PlanRequest) map[string]any {
	params := map[string]any{}
	if req.Destination != "" {
		params["destination"] = req.Destination
	}
	if req.DurationDays > 0 {
		params["duration"] = req.DurationDays
	}
	if req.Budget != "" {
		params["budget"] = req.Budget
	}
	if req.GroupSize > 0 {
		params["group_size"] = req.GroupSize
	}
	if req.TravelStyle != "" {
		params["travel_style"] = req.TravelStyle
	}
	if len(req.Preferences) > 0 {
		params["interests"] = req.Preferences
	}
	if req.StartDate != "" {
		params["start_date"] = req.StartDate
	}
	return params
}
