package weatheranalyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/generation"
	"mavuno-backend/internal/store"
	"mavuno-backend/internal/weather"
)

type fakeRunner struct {
	result  *generation.Result
	err     error
	lastReq *generation.Request
}

func (f *fakeRunner) Run(ctx context.Context, req *generation.Request) (*generation.Result, error) {
	f.lastReq = req
	return f.result, f.err
}

type fakeWeather struct {
	location    *weather.Location
	geocodeErr  error
	forecast    *weather.Forecast
	forecastErr error
}

func (f *fakeWeather) Geocode(ctx context.Context, name string) (*weather.Location, error) {
	return f.location, f.geocodeErr
}

func (f *fakeWeather) Forecast(ctx context.Context, latitude, longitude float64) (*weather.Forecast, error) {
	return f.forecast, f.forecastErr
}

type fakeAnalyses struct {
	inserted []*store.WeatherAnalysis
	listed   []store.WeatherAnalysis
	err      error
}

func (f *fakeAnalyses) InsertWeatherAnalysis(ctx context.Context, wa *store.WeatherAnalysis) error {
	if f.err != nil {
		return f.err
	}
	wa.ID = "wa-1"
	f.inserted = append(f.inserted, wa)
	return nil
}

func (f *fakeAnalyses) ListWeatherAnalyses(ctx context.Context, limit int) ([]store.WeatherAnalysis, error) {
	return f.listed, f.err
}

func nakuruWeather() *fakeWeather {
	return &fakeWeather{
		location: &weather.Location{Name: "Nakuru", Latitude: -0.28, Longitude: 36.07},
		forecast: &weather.Forecast{
			CurrentWeather: weather.CurrentWeather{Temperature: 24.5, Windspeed: 12.3, Weathercode: 2},
			Daily: weather.Daily{
				Time:                        []string{"2026-09-01"},
				TemperatureMax:              []float64{27.1},
				TemperatureMin:              []float64{14.2},
				PrecipitationSum:            []float64{5.4},
				PrecipitationProbabilityMax: []float64{65},
				Weathercode:                 []int{61},
			},
		},
	}
}

func performWeatherAnalyze(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/weather-analyze", h.Handle)

	req := httptest.NewRequest(http.MethodPost, "/api/weather-analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleWeatherAnalyzeSuccess(t *testing.T) {
	runner := &fakeRunner{result: &generation.Result{Parsed: map[string]interface{}{
		"risk_level":          "moderate",
		"agricultural_impact": "Rain favors planting",
		"recommendations": []interface{}{
			map[string]interface{}{"activity": "plant maize", "priority": "optimal"},
		},
		"risk_alerts": []interface{}{"possible flooding in low fields"},
	}}}
	analyses := &fakeAnalyses{}
	h := NewHandler(LoadConfig(), runner, nakuruWeather(), analyses, logger.NewTestLogger(t))

	rec := performWeatherAnalyze(t, h, `{"location":"Nakuru"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, runner.lastReq.Prompt, "Location: Nakuru")
	assert.Contains(t, runner.lastReq.Prompt, "Temperature: 24.5°C")
	assert.Contains(t, runner.lastReq.Prompt, "2026-09-01: code 61, High: 27.1°C, Low: 14.2°C, Rain: 5.4mm (65% chance)")

	require.Len(t, analyses.inserted, 1)
	wa := analyses.inserted[0]
	assert.Equal(t, "Nakuru", wa.Location)
	assert.Equal(t, 2, wa.CurrentConditions)
	require.NotNil(t, wa.AgriculturalImpact)
	assert.Equal(t, "Rain favors planting", *wa.AgriculturalImpact)
	assert.Equal(t, []string{"possible flooding in low fields"}, wa.RiskAlerts)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Nakuru", body["locationName"])
	assert.Contains(t, body, "weather")
	assert.Contains(t, body, "aiResponse")
	assert.Contains(t, body, "forecast7day")
	assert.Contains(t, body, "analysis")
}

func TestHandleWeatherAnalyzeMissingLocation(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeRunner{}, nakuruWeather(), &fakeAnalyses{}, logger.NewTestLogger(t))

	rec := performWeatherAnalyze(t, h, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "location is required")
}

func TestHandleWeatherAnalyzeLocationNotFound(t *testing.T) {
	svc := &fakeWeather{geocodeErr: weather.ErrLocationNotFound}
	h := NewHandler(LoadConfig(), &fakeRunner{}, svc, &fakeAnalyses{}, logger.NewTestLogger(t))

	rec := performWeatherAnalyze(t, h, `{"location":"Atlantis"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Location not found")
}

func TestHandleWeatherAnalyzeForecastFailure(t *testing.T) {
	svc := nakuruWeather()
	svc.forecastErr = weather.ErrWeatherUnavailable
	h := NewHandler(LoadConfig(), &fakeRunner{}, svc, &fakeAnalyses{}, logger.NewTestLogger(t))

	rec := performWeatherAnalyze(t, h, `{"location":"Nakuru"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch weather data")
}

func TestHandleWeatherAnalyzeUnparsableAdvisoryStillSaves(t *testing.T) {
	runner := &fakeRunner{result: &generation.Result{RawText: "no structured advisory"}}
	analyses := &fakeAnalyses{}
	h := NewHandler(LoadConfig(), runner, nakuruWeather(), analyses, logger.NewTestLogger(t))

	rec := performWeatherAnalyze(t, h, `{"location":"Nakuru"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, analyses.inserted, 1)
	assert.Nil(t, analyses.inserted[0].AgriculturalImpact)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body["aiResponse"])
}

func TestHandleWeatherAnalyzeSaveFailure(t *testing.T) {
	runner := &fakeRunner{result: &generation.Result{Parsed: map[string]interface{}{"risk_level": "low"}}}
	h := NewHandler(LoadConfig(), runner, nakuruWeather(), &fakeAnalyses{err: assert.AnError}, logger.NewTestLogger(t))

	rec := performWeatherAnalyze(t, h, `{"location":"Nakuru"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to save")
}

func TestHandleListWeatherAnalyses(t *testing.T) {
	analyses := &fakeAnalyses{listed: []store.WeatherAnalysis{{ID: "wa-1", Location: "Nakuru"}}}
	h := NewHandler(LoadConfig(), &fakeRunner{}, nakuruWeather(), analyses, logger.NewTestLogger(t))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/weather-analyses", h.HandleList)

	req := httptest.NewRequest(http.MethodGet, "/api/weather-analyses", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var listed []store.WeatherAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Nakuru", listed[0].Location)
}
