// Package weather wraps the Open-Meteo geocoding and forecast APIs.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	// ErrLocationNotFound means geocoding returned no results for the name.
	ErrLocationNotFound = errors.New("LOCATION_NOT_FOUND")
	// ErrWeatherUnavailable means Open-Meteo itself could not be reached.
	ErrWeatherUnavailable = errors.New("WEATHER_UNAVAILABLE")
)

// Config carries the Open-Meteo endpoints plus forecast shaping. Endpoints
// are configurable so tests can point at a local server.
type Config struct {
	GeocodeURL   string
	ForecastURL  string
	Timezone     string
	ForecastDays int
	Timeout      time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.GeocodeURL == "" {
		cfg.GeocodeURL = "https://geocoding-api.open-meteo.com/v1/search"
	}
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = "https://api.open-meteo.com/v1/forecast"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Africa/Nairobi"
	}
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 7
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Location is one geocoding hit.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
}

// CurrentWeather mirrors Open-Meteo's current_weather block.
type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	Windspeed   float64 `json:"windspeed"`
	Weathercode int     `json:"weathercode"`
}

// Daily mirrors Open-Meteo's column-oriented daily block.
type Daily struct {
	Time                        []string  `json:"time"`
	TemperatureMax              []float64 `json:"temperature_2m_max"`
	TemperatureMin              []float64 `json:"temperature_2m_min"`
	PrecipitationSum            []float64 `json:"precipitation_sum"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	Weathercode                 []int     `json:"weathercode"`
}

// Forecast is the raw forecast response we pass through to API clients.
type Forecast struct {
	CurrentWeather CurrentWeather `json:"current_weather"`
	Daily          Daily          `json:"daily"`
}

// DailyForecast is one row of the forecast pivoted for prompts and storage.
type DailyForecast struct {
	Date                string  `json:"date"`
	TempMax             float64 `json:"temp_max"`
	TempMin             float64 `json:"temp_min"`
	Weathercode         int     `json:"weathercode"`
	PrecipitationChance float64 `json:"precipitation_chance"`
	PrecipitationAmount float64 `json:"precipitation_amount"`
}

// Geocode resolves a place name to its best match. ErrLocationNotFound when
// the search yields nothing.
func (c *Client) Geocode(ctx context.Context, name string) (*Location, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("count", "1")

	var decoded struct {
		Results []Location `json:"results"`
	}
	if err := c.getJSON(ctx, c.cfg.GeocodeURL+"?"+params.Encode(), &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Results) == 0 {
		return nil, ErrLocationNotFound
	}
	return &decoded.Results[0], nil
}

// Forecast fetches current conditions plus the daily outlook for a point.
func (c *Client) Forecast(ctx context.Context, latitude, longitude float64) (*Forecast, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("current_weather", "true")
	params.Set("hourly", "temperature_2m,precipitation,relativehumidity_2m,windspeed_10m,uv_index")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,precipitation_probability_max,weathercode")
	params.Set("timezone", c.cfg.Timezone)
	params.Set("forecast_days", strconv.Itoa(c.cfg.ForecastDays))

	var forecast Forecast
	if err := c.getJSON(ctx, c.cfg.ForecastURL+"?"+params.Encode(), &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

// SevenDay pivots the column-oriented daily arrays into per-day rows. Ragged
// arrays are tolerated; missing columns read as zero values.
func (f *Forecast) SevenDay() []DailyForecast {
	days := make([]DailyForecast, 0, len(f.Daily.Time))
	for i, date := range f.Daily.Time {
		day := DailyForecast{Date: date}
		if i < len(f.Daily.TemperatureMax) {
			day.TempMax = f.Daily.TemperatureMax[i]
		}
		if i < len(f.Daily.TemperatureMin) {
			day.TempMin = f.Daily.TemperatureMin[i]
		}
		if i < len(f.Daily.Weathercode) {
			day.Weathercode = f.Daily.Weathercode[i]
		}
		if i < len(f.Daily.PrecipitationProbabilityMax) {
			day.PrecipitationChance = f.Daily.PrecipitationProbabilityMax[i]
		}
		if i < len(f.Daily.PrecipitationSum) {
			day.PrecipitationAmount = f.Daily.PrecipitationSum[i]
		}
		days = append(days, day)
	}
	return days
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrWeatherUnavailable, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrWeatherUnavailable, err)
	}
	return nil
}
