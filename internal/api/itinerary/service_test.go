package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sayan-Mondal2022/travAi/internal/api/parser"
	"github.com/Sayan-Mondal2022/travAi/internal/cache"
	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

// MockPlacesService is a mock implementation of places.Service
type MockPlacesService struct {
	mock.Mock
}

func (m *MockPlacesService) GetPreferencePlaces(ctx context.Context, destination, experience string, preferences []string) (*models.ReferencePlaces, *models.Coordinates, error) {
	args := m.Called(ctx, destination, experience, preferences)
	var reference *models.ReferencePlaces
	if args.Get(0) != nil {
		reference = args.Get(0).(*models.ReferencePlaces)
	}
	var coords *models.Coordinates
	if args.Get(1) != nil {
		coords = args.Get(1).(*models.Coordinates)
	}
	return reference, coords, args.Error(2)
}

// MockWeatherService is a mock implementation of weather.Service
type MockWeatherService struct {
	mock.Mock
}

func (m *MockWeatherService) GetForecast(ctx context.Context, lat, lng float64, days int) (*models.Forecast, error) {
	args := m.Called(ctx, lat, lng, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Forecast), args.Error(1)
}

func (m *MockWeatherService) GetCurrent(ctx context.Context, lat, lng float64) (*models.CurrentConditions, error) {
	args := m.Called(ctx, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CurrentConditions), args.Error(1)
}

// MockGenerator is a mock implementation of generativeAI.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateItinerary(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

const validModelResponse = `{
	"trip_overview": {"title": "Lisbon Getaway", "destination": "Lisbon", "duration": 2},
	"daily_schedule": [
		{"day": 1, "theme": "Old Town", "activities": [
			{"title": "Castle Walk", "type": "sightseeing", "time": "9:00 AM", "estimated_cost": 15}
		]},
		{"day": 2, "theme": "Riverside", "activities": [
			{"title": "Tram Ride", "type": "transport", "time": "10:30", "estimated_cost": 3}
		]}
	],
	"budget_breakdown": {"accommodation": {"total": 200}, "food": 120},
	"travel_tips": ["Carry sunscreen"]
}`

func setupItineraryServiceTest() (*ServiceImpl, *MockPlacesService, *MockWeatherService, *MockGenerator) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	placesSvc := new(MockPlacesService)
	weatherSvc := new(MockWeatherService)
	generator := new(MockGenerator)
	tiered := cache.NewTieredCache(cache.NewMemoryStore(), 100, logger)
	service := NewService(placesSvc, weatherSvc, generator, parser.NewParser(logger), tiered, time.Hour, logger)
	return service, placesSvc, weatherSvc, generator
}

func TestServiceImpl_GeneratePlan(t *testing.T) {
	ctx := context.Background()
	req := models.PlanRequest{
		Destination:  "Lisbon",
		DurationDays: 2,
		Preferences:  []string{"Culture"},
		TravelStyle:  "moderate",
	}

	t.Run("full pipeline", func(t *testing.T) {
		service, placesSvc, weatherSvc, generator := setupItineraryServiceTest()

		coords := &models.Coordinates{Lat: 38.72, Lng: -9.14}
		placesSvc.On("GetPreferencePlaces", mock.Anything, "Lisbon", "moderate", []string{"Culture"}).
			Return(&models.ReferencePlaces{}, coords, nil).Once()
		weatherSvc.On("GetForecast", mock.Anything, 38.72, -9.14, 2).
			Return(&models.Forecast{ForecastDays: []models.ForecastDay{{Date: "2026-09-01"}}}, nil).Once()
		generator.On("GenerateItinerary", mock.Anything, mock.Anything).
			Return(validModelResponse, nil).Once()

		doc, err := service.GeneratePlan(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Lisbon Getaway", doc.TripOverview.Title)
		assert.Len(t, doc.DailySchedule, 2)
		assert.Equal(t, "09:00", doc.DailySchedule[0].Activities[0].Time)
		assert.InDelta(t, 320, doc.BudgetBreakdown.GrandTotal, 0.001)
		assert.NotEmpty(t, doc.Metadata.PlanID)

		// Same request again comes from the cache without touching any mock.
		placesSvc.AssertExpectations(t)
		weatherSvc.AssertExpectations(t)
		generator.AssertExpectations(t)

		cached, err := service.GeneratePlan(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, doc.Metadata.PlanID, cached.Metadata.PlanID)
	})

	t.Run("forecast failure does not block generation", func(t *testing.T) {
		service, placesSvc, weatherSvc, generator := setupItineraryServiceTest()

		coords := &models.Coordinates{Lat: 38.72, Lng: -9.14}
		placesSvc.On("GetPreferencePlaces", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&models.ReferencePlaces{}, coords, nil).Once()
		weatherSvc.On("GetForecast", mock.Anything, 38.72, -9.14, 2).
			Return(nil, errors.New("service unavailable")).Once()
		generator.On("GenerateItinerary", mock.Anything, mock.Anything).
			Return(validModelResponse, nil).Once()

		doc, err := service.GeneratePlan(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Lisbon Getaway", doc.TripOverview.Title)
	})

	t.Run("nil coordinates skip the forecast entirely", func(t *testing.T) {
		service, placesSvc, weatherSvc, generator := setupItineraryServiceTest()

		placesSvc.On("GetPreferencePlaces", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&models.ReferencePlaces{}, nil, nil).Once()
		generator.On("GenerateItinerary", mock.Anything, mock.Anything).
			Return(validModelResponse, nil).Once()

		_, err := service.GeneratePlan(ctx, req)
		require.NoError(t, err)
		weatherSvc.AssertNotCalled(t, "GetForecast", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("model failure surfaces", func(t *testing.T) {
		service, placesSvc, weatherSvc, generator := setupItineraryServiceTest()

		placesSvc.On("GetPreferencePlaces", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&models.ReferencePlaces{}, nil, nil).Once()
		_ = weatherSvc
		generator.On("GenerateItinerary", mock.Anything, mock.Anything).
			Return("", errors.New("model overloaded")).Once()

		_, err := service.GeneratePlan(ctx, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generating itinerary")
	})

	t.Run("unparseable response surfaces as ParseError", func(t *testing.T) {
		service, placesSvc, _, generator := setupItineraryServiceTest()

		placesSvc.On("GetPreferencePlaces", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&models.ReferencePlaces{}, nil, nil).Once()
		generator.On("GenerateItinerary", mock.Anything, mock.Anything).
			Return("I could not produce an itinerary, sorry.", nil).Once()

		_, err := service.GeneratePlan(ctx, req)
		require.Error(t, err)
		var parseErr *parser.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestServiceImpl_RefinePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("produces a fresh document", func(t *testing.T) {
		service, _, _, generator := setupItineraryServiceTest()
		generator.On("GenerateItinerary", mock.Anything, mock.Anything).
			Return(validModelResponse, nil).Once()

		prior := &models.ItineraryDocument{
			TripOverview: models.TripOverview{Title: "Original Title"},
			Metadata:     models.ItineraryMetadata{PlanID: "prior-id"},
		}
		doc, err := service.RefinePlan(ctx, prior, "more museums please")
		require.NoError(t, err)
		assert.NotEqual(t, prior.Metadata.PlanID, doc.Metadata.PlanID)
		// The prior document is untouched.
		assert.Equal(t, "Original Title", prior.TripOverview.Title)
	})

	t.Run("model failure surfaces", func(t *testing.T) {
		service, _, _, generator := setupItineraryServiceTest()
		generator.On("GenerateItinerary", mock.Anything, mock.Anything).
			Return("", errors.New("model overloaded")).Once()

		_, err := service.RefinePlan(ctx, &models.ItineraryDocument{}, "feedback")
		require.Error(t, err)
	})
}

func TestServiceImpl_CacheControls(t *testing.T) {
	ctx := context.Background()
	service, placesSvc, _, generator := setupItineraryServiceTest()

	placesSvc.On("GetPreferencePlaces", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&models.ReferencePlaces{}, nil, nil)
	generator.On("GenerateItinerary", mock.Anything, mock.Anything).
		Return(validModelResponse, nil)

	req := models.PlanRequest{Destination: "Lisbon", DurationDays: 2}
	_, err := service.GeneratePlan(ctx, req)
	require.NoError(t, err)

	stats := service.CacheStats(ctx)
	assert.Equal(t, 1, stats.FastSize)

	service.ClearCache(ctx)
	assert.Equal(t, 0, service.CacheStats(ctx).FastSize)
}
