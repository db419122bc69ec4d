package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

const (
	baseURL         = "https://weather.googleapis.com/v1"
	maxForecastDays = 7
)

// Service is the weather source contract. Failures degrade to nil results
// upstream; the planner treats missing weather as an empty forecast.
type Service interface {
	GetForecast(ctx context.Context, lat, lng float64, days int) (*models.Forecast, error)
	GetCurrent(ctx context.Context, lat, lng float64) (*models.CurrentConditions, error)
}

var _ Service = (*GoogleWeather)(nil)

// GoogleWeather calls the Google Weather API and flattens its nested
// day/night forecast sections into the planner's shapes.
type GoogleWeather struct {
	logger     *slog.Logger
	apiKey     string
	httpClient *http.Client
	memo       *cache.Cache
}

func NewGoogleWeather(apiKey string, logger *slog.Logger) *GoogleWeather {
	return &GoogleWeather{
		logger:     logger,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		memo:       cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Wire shapes for the forecast/currentConditions endpoints.

type wireQuantity struct {
	Degrees *float64 `json:"degrees"`
	Value   *float64 `json:"value"`
	Unit    string   `json:"unit"`
}

type wireCondition struct {
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
}

type wireDaypart struct {
	WeatherCondition *wireCondition `json:"weatherCondition"`
	Precipitation    *struct {
		Probability struct {
			Percent *int `json:"percent"`
		} `json:"probability"`
	} `json:"precipitation"`
	RelativeHumidity *int `json:"relativeHumidity"`
	Wind             *struct {
		Speed wireQuantity `json:"speed"`
	} `json:"wind"`
}

type wireForecastDay struct {
	DisplayDate *struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	} `json:"displayDate"`
	Interval *struct {
		StartTime string `json:"startTime"`
	} `json:"interval"`
	MaxTemperature    *wireQuantity `json:"maxTemperature"`
	MinTemperature    *wireQuantity `json:"minTemperature"`
	DaytimeForecast   *wireDaypart  `json:"daytimeForecast"`
	NighttimeForecast *wireDaypart  `json:"nighttimeForecast"`
}

type forecastResponse struct {
	ForecastDays []wireForecastDay `json:"forecastDays"`
}

type currentResponse struct {
	Temperature      *wireQuantity  `json:"temperature"`
	RelativeHumidity *int           `json:"relativeHumidity"`
	Wind             *struct {
		Speed wireQuantity `json:"speed"`
	} `json:"wind"`
	WeatherCondition *wireCondition `json:"weatherCondition"`
	IsDaytime        bool           `json:"isDaytime"`
	Precipitation    *struct {
		Probability struct {
			Percent *int `json:"percent"`
		} `json:"probability"`
	} `json:"precipitation"`
}

// GetForecast returns up to seven days of flattened forecast data for the
// coordinate.
func (w *GoogleWeather) GetForecast(ctx context.Context, lat, lng float64, days int) (*models.Forecast, error) {
	if days > maxForecastDays {
		days = maxForecastDays
	}
	memoKey := fmt.Sprintf("forecast:%.4f:%.4f:%d", lat, lng, days)
	if cached, ok := w.memo.Get(memoKey); ok {
		return cached.(*models.Forecast), nil
	}

	params := url.Values{}
	params.Set("key", w.apiKey)
	params.Set("location.latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("location.longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("days", strconv.Itoa(days))

	var raw forecastResponse
	if err := w.getJSON(ctx, baseURL+"/forecast/days:lookup?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}

	forecast := adaptForecast(&raw)
	w.memo.Set(memoKey, forecast, cache.DefaultExpiration)
	return forecast, nil
}

// GetCurrent returns flattened current conditions for the coordinate.
func (w *GoogleWeather) GetCurrent(ctx context.Context, lat, lng float64) (*models.CurrentConditions, error) {
	params := url.Values{}
	params.Set("key", w.apiKey)
	params.Set("location.latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("location.longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("unitsSystem", "METRIC")

	var raw currentResponse
	if err := w.getJSON(ctx, baseURL+"/currentConditions:lookup?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("fetching current conditions: %w", err)
	}
	return adaptCurrent(&raw), nil
}

func (w *GoogleWeather) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func adaptForecast(raw *forecastResponse) *models.Forecast {
	forecast := &models.Forecast{ForecastDays: make([]models.ForecastDay, 0, len(raw.ForecastDays))}

	for _, day := range raw.ForecastDays {
		flat := models.ForecastDay{}

		if day.DisplayDate != nil && day.DisplayDate.Year > 0 {
			date := time.Date(day.DisplayDate.Year, time.Month(day.DisplayDate.Month), day.DisplayDate.Day, 0, 0, 0, 0, time.UTC)
			flat.Date = date.Format("2006-01-02")
			flat.DayName = date.Weekday().String()
		} else if day.Interval != nil && day.Interval.StartTime != "" {
			if parsed, err := time.Parse(time.RFC3339, day.Interval.StartTime); err == nil {
				flat.Date = parsed.Format("2006-01-02")
				flat.DayName = parsed.Weekday().String()
			} else {
				flat.Date = day.Interval.StartTime
			}
		}

		if day.MaxTemperature != nil {
			flat.MaxTemp = day.MaxTemperature.Degrees
			flat.TemperatureUnit = day.MaxTemperature.Unit
		}
		if day.MinTemperature != nil {
			flat.MinTemp = day.MinTemperature.Degrees
			if flat.TemperatureUnit == "" {
				flat.TemperatureUnit = day.MinTemperature.Unit
			}
		}

		// Description prefers the daytime section.
		if desc := daypartDescription(day.DaytimeForecast); desc != "" {
			flat.Description = desc
		} else {
			flat.Description = daypartDescription(day.NighttimeForecast)
		}

		// Precipitation chance is the max of day/night.
		flat.PrecipitationPct = maxPrecipitation(day.DaytimeForecast, day.NighttimeForecast)

		// Humidity averages day/night when both present.
		flat.Humidity = averageHumidity(day.DaytimeForecast, day.NighttimeForecast)

		// Wind prefers daytime, falling back to nighttime.
		if speed, unit, ok := daypartWind(day.DaytimeForecast); ok {
			flat.WindSpeed, flat.WindSpeedUnit = speed, unit
		} else if speed, unit, ok := daypartWind(day.NighttimeForecast); ok {
			flat.WindSpeed, flat.WindSpeedUnit = speed, unit
		}

		forecast.ForecastDays = append(forecast.ForecastDays, flat)
	}
	return forecast
}

func adaptCurrent(raw *currentResponse) *models.CurrentConditions {
	current := &models.CurrentConditions{
		Humidity:   raw.RelativeHumidity,
		DayOrNight: "night",
	}
	if raw.IsDaytime {
		current.DayOrNight = "day"
	}
	if raw.Temperature != nil {
		current.Temperature = raw.Temperature.Degrees
		current.TemperatureUnit = raw.Temperature.Unit
	}
	if raw.Wind != nil {
		current.WindSpeed = raw.Wind.Speed.Value
		current.WindSpeedUnit = raw.Wind.Speed.Unit
	}
	if raw.WeatherCondition != nil {
		current.Condition = raw.WeatherCondition.Description.Text
	}
	if raw.Precipitation != nil {
		current.PrecipitationPct = raw.Precipitation.Probability.Percent
	}
	return current
}

func daypartDescription(part *wireDaypart) string {
	if part == nil || part.WeatherCondition == nil {
		return ""
	}
	return part.WeatherCondition.Description.Text
}

func maxPrecipitation(day, night *wireDaypart) *int {
	var result *int
	for _, part := range []*wireDaypart{day, night} {
		if part == nil || part.Precipitation == nil || part.Precipitation.Probability.Percent == nil {
			continue
		}
		pct := *part.Precipitation.Probability.Percent
		if result == nil || pct > *result {
			value := pct
			result = &value
		}
	}
	return result
}

func averageHumidity(day, night *wireDaypart) *int {
	var dayH, nightH *int
	if day != nil {
		dayH = day.RelativeHumidity
	}
	if night != nil {
		nightH = night.RelativeHumidity
	}
	switch {
	case dayH != nil && nightH != nil:
		avg := (*dayH + *nightH + 1) / 2
		return &avg
	case dayH != nil:
		return dayH
	default:
		return nightH
	}
}

func daypartWind(part *wireDaypart) (*float64, string, bool) {
	if part == nil || part.Wind == nil || part.Wind.Speed.Value == nil {
		return nil, "", false
	}
	return part.Wind.Speed.Value, part.Wind.Speed.Unit, true
}
