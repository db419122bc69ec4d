package models

// ForecastDay is one flattened day of forecast data. The adapter collapses
// the API's nested day/night sections into single values.
type ForecastDay struct {
	Date               string   `json:"date"`
	DayName            string   `json:"dayname,omitempty"`
	MaxTemp            *float64 `json:"maxTemp,omitempty"`
	MinTemp            *float64 `json:"minTemp,omitempty"`
	TemperatureUnit    string   `json:"temperatureUnit,omitempty"`
	Description        string   `json:"description,omitempty"`
	PrecipitationPct   *int     `json:"precipitationChance,omitempty"`
	Humidity           *int     `json:"humidity,omitempty"`
	WindSpeed          *float64 `json:"windSpeed,omitempty"`
	WindSpeedUnit      string   `json:"windSpeedUnit,omitempty"`
}

// Forecast is a multi-day forecast for one coordinate.
type Forecast struct {
	ForecastDays []ForecastDay `json:"forecastDays"`
}

// CurrentConditions is the flattened current-weather shape.
type CurrentConditions struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TemperatureUnit  string   `json:"temperatureUnit,omitempty"`
	Humidity         *int     `json:"humidity,omitempty"`
	WindSpeed        *float64 `json:"windSpeed,omitempty"`
	WindSpeedUnit    string   `json:"windSpeedUnit,omitempty"`
	Condition        string   `json:"condition,omitempty"`
	DayOrNight       string   `json:"dayOrNight,omitempty"`
	PrecipitationPct *int     `json:"precipitationChance,omitempty"`
}
