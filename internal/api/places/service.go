package places

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/Sayan-Mondal2022/travAi/app/observability/metrics"
	"github.com/Sayan-Mondal2022/travAi/internal/api/geo"
	"github.com/Sayan-Mondal2022/travAi/internal/cache"
	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service aggregates grouped candidate places for a destination. Source
// failures degrade to empty groups; the only shared state behind this
// interface is the tiered cache.
type Service interface {
	GetPreferencePlaces(ctx context.Context, destination, experience string, preferences []string) (*models.ReferencePlaces, *models.Coordinates, error)
}

// referenceDocument is the cached shape for one destination's grouped
// places plus its resolved coordinate.
type referenceDocument struct {
	ReferencePlaces models.ReferencePlaces `json:"reference_places"`
	Coordinates     *models.Coordinates    `json:"coordinates,omitempty"`
}

type ServiceImpl struct {
	logger   *slog.Logger
	client   Client
	geocoder geo.Geocoder
	catalog  *QueryCatalog
	cache    *cache.TieredCache
	cacheTTL time.Duration
}

func NewService(client Client, geocoder geo.Geocoder, catalog *QueryCatalog, tiered *cache.TieredCache, cacheTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		client:   client,
		geocoder: geocoder,
		catalog:  catalog,
		cache:    tiered,
		cacheTTL: cacheTTL,
	}
}

// GetPreferencePlaces returns preference-grouped attraction, restaurant and
// lodging candidates for a destination, fetching the three categories
// concurrently on a cache miss. Deduplication is scoped to this call.
func (s *ServiceImpl) GetPreferencePlaces(ctx context.Context, destination, experience string, preferences []string) (*models.ReferencePlaces, *models.Coordinates, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "GetPreferencePlaces")
	defer span.End()
	span.SetAttributes(
		attribute.String("destination", destination),
		attribute.Int("preferences.count", len(preferences)),
	)

	key := cache.BuildPlaceKey(destination, experience, preferences)
	if payload, ok := s.cache.Get(ctx, key); ok {
		var doc referenceDocument
		if err := json.Unmarshal(payload, &doc); err == nil {
			return &doc.ReferencePlaces, doc.Coordinates, nil
		}
		s.logger.WarnContext(ctx, "Discarding undecodable cached reference document",
			slog.String("key", key))
	}

	var coords *models.Coordinates
	if resolved, _, err := s.geocoder.Geocode(ctx, destination); err != nil {
		s.logger.WarnContext(ctx, "Geocoding failed, continuing without coordinates",
			slog.String("destination", destination), slog.Any("error", err))
		metrics.RecordSourceFetchError(ctx, "geocoder")
	} else {
		coords = &resolved
	}

	var attractions, restaurants, lodging []models.PlaceRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		attractions = s.fetchCategory(gctx, "attractions", destination, s.catalog.TouristQueries(preferences))
		if coords != nil {
			attractions = s.supplementNearby(gctx, *coords, attractions)
		}
		return nil
	})
	g.Go(func() error {
		restaurants = s.fetchCategory(gctx, "restaurants", destination, s.catalog.RestaurantQueries(experience, preferences))
		return nil
	})
	g.Go(func() error {
		lodging = s.fetchCategory(gctx, "lodging", destination, s.catalog.LodgingQueries(experience, preferences))
		return nil
	})
	_ = g.Wait() // fetchCategory never returns an error, it degrades

	reference := models.ReferencePlaces{
		TouristAttractions: Classify(attractions, preferences),
		Restaurants:        Classify(restaurants, preferences),
		Lodging:            Classify(lodging, preferences),
	}

	payload, err := json.Marshal(referenceDocument{ReferencePlaces: reference, Coordinates: coords})
	if err == nil {
		s.cache.Set(ctx, key, payload, s.cacheTTL)
	} else {
		s.logger.WarnContext(ctx, "Failed to encode reference document for caching", slog.Any("error", err))
	}
	return &reference, coords, nil
}

// fetchCategory runs every query for one candidate category, deduplicating
// across overlapping query results with a session scoped to this call.
// Individual query failures are logged and skipped.
func (s *ServiceImpl) fetchCategory(ctx context.Context, category, destination string, queries []string) []models.PlaceRecord {
	session := NewSession()
	var records []models.PlaceRecord

	for _, query := range queries {
		results, err := s.client.SearchText(ctx, query+" in "+destination)
		if err != nil {
			s.logger.WarnContext(ctx, "Place query failed, skipping",
				slog.String("category", category),
				slog.String("query", query),
				slog.Any("error", err))
			metrics.RecordSourceFetchError(ctx, "places")
			continue
		}
		records = append(records, session.Admit(results)...)
	}

	s.logger.DebugContext(ctx, "Fetched category candidates",
		slog.String("category", category),
		slog.Int("count", len(records)))
	return records
}

const nearbyAttractionRadiusMeters = 5000

// supplementNearby adds typed nearby results around the resolved
// coordinate to the text-search attraction candidates, deduplicated
// against them. A nearby failure keeps the text results.
func (s *ServiceImpl) supplementNearby(ctx context.Context, coords models.Coordinates, records []models.PlaceRecord) []models.PlaceRecord {
	results, err := s.client.SearchNearby(ctx, coords.Lat, coords.Lng,
		[]string{"tourist_attraction"}, nearbyAttractionRadiusMeters)
	if err != nil {
		s.logger.WarnContext(ctx, "Nearby search failed, keeping text results",
			slog.Any("error", err))
		metrics.RecordSourceFetchError(ctx, "places")
		return records
	}

	session := NewSession()
	session.Admit(records)
	return append(records, session.Admit(results)...)
}
