package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

const geocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// ErrNotFound is returned when the destination cannot be resolved to a
// coordinate.
var ErrNotFound = errors.New("geo: location not found")

// Geocoder maps a destination string to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, destination string) (models.Coordinates, string, error)
}

var _ Geocoder = (*GoogleGeocoder)(nil)

// GoogleGeocoder resolves destinations through the Google Geocoding API.
type GoogleGeocoder struct {
	logger     *slog.Logger
	apiKey     string
	httpClient *http.Client
}

func NewGoogleGeocoder(apiKey string, logger *slog.Logger) *GoogleGeocoder {
	return &GoogleGeocoder{
		logger:     logger,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

// Geocode returns the coordinate and formatted address for a destination.
func (g *GoogleGeocoder) Geocode(ctx context.Context, destination string) (models.Coordinates, string, error) {
	params := url.Values{}
	params.Set("address", destination)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, "", fmt.Errorf("building geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return models.Coordinates{}, "", fmt.Errorf("geocoding %q: %w", destination, err)
	}
	defer resp.Body.Close()

	var parsed geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.Coordinates{}, "", fmt.Errorf("decoding geocode response: %w", err)
	}
	if len(parsed.Results) == 0 {
		g.logger.WarnContext(ctx, "Geocoder returned no results",
			slog.String("destination", destination), slog.String("status", parsed.Status))
		return models.Coordinates{}, "", fmt.Errorf("%w: %s", ErrNotFound, destination)
	}

	result := parsed.Results[0]
	address := result.FormattedAddress
	if address == "" {
		address = destination
	}
	return models.Coordinates{
		Lat: result.Geometry.Location.Lat,
		Lng: result.Geometry.Location.Lng,
	}, address, nil
}
