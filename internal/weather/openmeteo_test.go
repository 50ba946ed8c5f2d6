package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Nakuru", r.URL.Query().Get("name"))
		assert.Equal(t, "1", r.URL.Query().Get("count"))
		w.Write([]byte(`{"results":[{"name":"Nakuru","latitude":-0.28,"longitude":36.07,"country":"Kenya","admin1":"Nakuru"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{GeocodeURL: server.URL})
	loc, err := client.Geocode(context.Background(), "Nakuru")
	require.NoError(t, err)
	assert.Equal(t, "Nakuru", loc.Name)
	assert.InDelta(t, -0.28, loc.Latitude, 0.001)
	assert.InDelta(t, 36.07, loc.Longitude, 0.001)
}

func TestGeocodeNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generationtime_ms":0.5}`))
	}))
	defer server.Close()

	client := NewClient(Config{GeocodeURL: server.URL})
	_, err := client.Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("current_weather"))
		assert.Equal(t, "Africa/Nairobi", q.Get("timezone"))
		assert.Equal(t, "7", q.Get("forecast_days"))
		assert.Contains(t, q.Get("daily"), "precipitation_probability_max")
		w.Write([]byte(`{
			"current_weather": {"temperature": 24.5, "windspeed": 12.3, "weathercode": 2},
			"daily": {
				"time": ["2026-09-01", "2026-09-02"],
				"temperature_2m_max": [27.1, 26.0],
				"temperature_2m_min": [14.2, 13.8],
				"precipitation_sum": [0.0, 5.4],
				"precipitation_probability_max": [10, 65],
				"weathercode": [2, 61]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{ForecastURL: server.URL})
	forecast, err := client.Forecast(context.Background(), -0.28, 36.07)
	require.NoError(t, err)
	assert.InDelta(t, 24.5, forecast.CurrentWeather.Temperature, 0.001)
	assert.Equal(t, 2, forecast.CurrentWeather.Weathercode)

	days := forecast.SevenDay()
	require.Len(t, days, 2)
	assert.Equal(t, "2026-09-02", days[1].Date)
	assert.InDelta(t, 26.0, days[1].TempMax, 0.001)
	assert.InDelta(t, 65, days[1].PrecipitationChance, 0.001)
	assert.InDelta(t, 5.4, days[1].PrecipitationAmount, 0.001)
	assert.Equal(t, 61, days[1].Weathercode)
}

func TestForecastUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{ForecastURL: server.URL})
	_, err := client.Forecast(context.Background(), -0.28, 36.07)
	assert.ErrorIs(t, err, ErrWeatherUnavailable)
}

func TestSevenDayRaggedArrays(t *testing.T) {
	forecast := &Forecast{Daily: Daily{
		Time:           []string{"2026-09-01", "2026-09-02"},
		TemperatureMax: []float64{25.0},
	}}
	days := forecast.SevenDay()
	require.Len(t, days, 2)
	assert.InDelta(t, 25.0, days[0].TempMax, 0.001)
	assert.Zero(t, days[1].TempMax)
}
