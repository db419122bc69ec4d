package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

const (
	textSearchURL   = "https://places.googleapis.com/v1/places:searchText"
	nearbySearchURL = "https://places.googleapis.com/v1/places:searchNearby"

	nearbyFieldMask = "places.displayName,places.name,places.id," +
		"places.internationalPhoneNumber,places.formattedAddress,places.types," +
		"places.rating,places.userRatingCount,places.location," +
		"places.googleMapsLinks.placeUri,places.googleMapsLinks.directionsUri," +
		"places.editorialSummary,places.reviewSummary.text"
)

// Client is the place source contract. Implementations may return empty
// slices; the aggregation layer treats the source as unreliable.
type Client interface {
	SearchText(ctx context.Context, query string) ([]models.PlaceRecord, error)
	SearchNearby(ctx context.Context, lat, lng float64, includedTypes []string, radiusMeters float64) ([]models.PlaceRecord, error)
}

var _ Client = (*GoogleClient)(nil)

// GoogleClient calls the Google Places API (v1) and adapts the raw
// responses into PlaceRecord at the boundary. Raw query results are
// memoized for a short window to keep repeated overlapping searches cheap.
type GoogleClient struct {
	logger     *slog.Logger
	apiKey     string
	httpClient *http.Client
	memo       *cache.Cache
}

func NewGoogleClient(apiKey string, logger *slog.Logger) *GoogleClient {
	return &GoogleClient{
		logger:     logger,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		memo:       cache.New(30*time.Minute, 10*time.Minute),
	}
}

// SearchText runs a free-text place search.
func (c *GoogleClient) SearchText(ctx context.Context, query string) ([]models.PlaceRecord, error) {
	memoKey := "text:" + query
	if cached, ok := c.memo.Get(memoKey); ok {
		return cached.([]models.PlaceRecord), nil
	}

	body := map[string]any{"textQuery": query}
	raw, err := c.post(ctx, textSearchURL, body, "*")
	if err != nil {
		return nil, fmt.Errorf("places text search %q: %w", query, err)
	}

	records := adaptSearchResponse(raw)
	c.memo.Set(memoKey, records, cache.DefaultExpiration)
	return records, nil
}

// SearchNearby runs a typed nearby search around a coordinate.
func (c *GoogleClient) SearchNearby(ctx context.Context, lat, lng float64, includedTypes []string, radiusMeters float64) ([]models.PlaceRecord, error) {
	memoKey := fmt.Sprintf("nearby:%.6f:%.6f:%v:%.0f", lat, lng, includedTypes, radiusMeters)
	if cached, ok := c.memo.Get(memoKey); ok {
		return cached.([]models.PlaceRecord), nil
	}

	body := map[string]any{
		"includedTypes":  includedTypes,
		"maxResultCount": 20,
		"locationRestriction": map[string]any{
			"circle": map[string]any{
				"center": map[string]any{"latitude": lat, "longitude": lng},
				"radius": radiusMeters,
			},
		},
	}
	raw, err := c.post(ctx, nearbySearchURL, body, nearbyFieldMask)
	if err != nil {
		return nil, fmt.Errorf("places nearby search: %w", err)
	}

	records := adaptSearchResponse(raw)
	c.memo.Set(memoKey, records, cache.DefaultExpiration)
	return records, nil
}

func (c *GoogleClient) post(ctx context.Context, url string, body map[string]any, fieldMask string) (*searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &parsed, nil
}
