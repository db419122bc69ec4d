package weather

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

// MockWeatherService is a mock implementation of Service
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

// MockGeocoder is a mock implementation of geo.Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, destination string) (models.Coordinates, string, error) {
	args := m.Called(ctx, destination)
	return args.Get(0).(models.Coordinates), args.String(1), args.Error(2)
}

func setupWeatherHandlerTest() (*Handler, *MockWeatherService, *MockGeocoder) {
	service := new(MockWeatherService)
	geocoder := new(MockGeocoder)
	handler := NewWeatherHandler(service, geocoder, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return handler, service, geocoder
}

func TestHandler_GetCurrent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, service, geocoder := setupWeatherHandlerTest()
		temp := 21.5
		geocoder.On("Geocode", mock.Anything, "Lisbon").
			Return(models.Coordinates{Lat: 38.72, Lng: -9.14}, "Lisbon, Portugal", nil).Once()
		service.On("GetCurrent", mock.Anything, 38.72, -9.14).
			Return(&models.CurrentConditions{
				Temperature:     &temp,
				TemperatureUnit: "CELSIUS",
				Condition:       "Clear",
				DayOrNight:      "day",
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?destination=Lisbon", nil)
		rec := httptest.NewRecorder()
		handler.GetCurrent(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got models.CurrentConditions
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.NotNil(t, got.Temperature)
		assert.Equal(t, 21.5, *got.Temperature)
		assert.Equal(t, "Clear", got.Condition)
		service.AssertExpectations(t)
		geocoder.AssertExpectations(t)
	})

	t.Run("missing destination", func(t *testing.T) {
		handler, _, _ := setupWeatherHandlerTest()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current", nil)
		rec := httptest.NewRecorder()
		handler.GetCurrent(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unresolvable destination maps to not found", func(t *testing.T) {
		handler, service, geocoder := setupWeatherHandlerTest()
		geocoder.On("Geocode", mock.Anything, "Atlantis").
			Return(models.Coordinates{}, "", errors.New("ZERO_RESULTS")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?destination=Atlantis", nil)
		rec := httptest.NewRecorder()
		handler.GetCurrent(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		service.AssertNotCalled(t, "GetCurrent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("weather source failure maps to bad gateway", func(t *testing.T) {
		handler, service, geocoder := setupWeatherHandlerTest()
		geocoder.On("Geocode", mock.Anything, "Lisbon").
			Return(models.Coordinates{Lat: 38.72, Lng: -9.14}, "Lisbon, Portugal", nil).Once()
		service.On("GetCurrent", mock.Anything, 38.72, -9.14).
			Return(nil, errors.New("weather API returned status 500")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?destination=Lisbon", nil)
		rec := httptest.NewRecorder()
		handler.GetCurrent(rec, req)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
