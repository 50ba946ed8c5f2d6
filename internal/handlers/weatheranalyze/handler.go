// Package weatheranalyze implements the weather advisory endpoint: geocode
// the requested place, fetch the Open-Meteo forecast, generate an
// agricultural advisory against the forecast, and persist the combined
// analysis.
package weatheranalyze

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"mavuno-backend/internal/common/errors"
	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/generation"
	"mavuno-backend/internal/store"
	"mavuno-backend/internal/weather"
)

const Endpoint = "weather_analyze"

type Runner interface {
	Run(ctx context.Context, req *generation.Request) (*generation.Result, error)
}

// WeatherService resolves place names and fetches forecasts.
type WeatherService interface {
	Geocode(ctx context.Context, name string) (*weather.Location, error)
	Forecast(ctx context.Context, latitude, longitude float64) (*weather.Forecast, error)
}

type AnalysisStore interface {
	InsertWeatherAnalysis(ctx context.Context, wa *store.WeatherAnalysis) error
	ListWeatherAnalyses(ctx context.Context, limit int) ([]store.WeatherAnalysis, error)
}

type Handler struct {
	config   *Config
	runner   Runner
	weather  WeatherService
	analyses AnalysisStore
	logger   logger.Logger
}

func NewHandler(config *Config, runner Runner, svc WeatherService, analyses AnalysisStore, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		runner:   runner,
		weather:  svc,
		analyses: analyses,
		logger:   log.With(map[string]interface{}{"endpoint": Endpoint}),
	}
}

func (h *Handler) Handle(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil || req.Location == "" {
		errors.WriteHTTPError(c, errors.NewValidationError("location is required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	loc, err := h.weather.Geocode(ctx, req.Location)
	if err != nil {
		if goerrors.Is(err, weather.ErrLocationNotFound) {
			errors.WriteHTTPError(c, errors.NewLocationNotFoundError())
			return
		}
		errors.WriteHTTPError(c, errors.NewUpstreamError(errors.ErrCodeWeatherUnavailable, "Failed to fetch weather data", err.Error()))
		return
	}

	forecast, err := h.weather.Forecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		errors.WriteHTTPError(c, errors.NewUpstreamError(errors.ErrCodeWeatherUnavailable, "Failed to fetch weather data", err.Error()))
		return
	}
	days := forecast.SevenDay()

	result, err := h.runner.Run(ctx, &generation.Request{
		Prompt:          buildPrompt(loc.Name, forecast.CurrentWeather, days),
		Schema:          advisorySchema,
		MaxOutputTokens: h.config.MaxTokens,
		Temperature:     h.config.Temperature,
	})
	if err != nil {
		errors.WriteHTTPError(c, errors.NewUpstreamError(errors.ErrCodeGenerationUnavailable, "Failed to analyze weather", err.Error()))
		return
	}

	forecastJSON, _ := json.Marshal(days)
	analysis := &store.WeatherAnalysis{
		Location:           loc.Name,
		Latitude:           loc.Latitude,
		Longitude:          loc.Longitude,
		CurrentTemperature: forecast.CurrentWeather.Temperature,
		CurrentConditions:  forecast.CurrentWeather.Weathercode,
		WindSpeed:          forecast.CurrentWeather.Windspeed,
		Forecast7Day:       forecastJSON,
	}
	if result.Parsed != nil {
		analysis.AgriculturalImpact = generation.OptString(result.Parsed, "agricultural_impact")
		analysis.PlantingRecommendations = generation.JSONField(result.Parsed, "recommendations")
		analysis.RiskAlerts = generation.StringSlice(result.Parsed, "risk_alerts")
		analysis.HistoricalComparison = generation.OptString(result.Parsed, "historical_comparison")
	}

	if err := h.analyses.InsertWeatherAnalysis(ctx, analysis); err != nil {
		h.logger.Error("failed to save analysis", map[string]interface{}{"error": err.Error()})
		errors.WriteHTTPError(c, errors.NewPersistenceError("Failed to save", err.Error()))
		return
	}

	c.JSON(200, gin.H{
		"weather":      forecast,
		"aiResponse":   result.Parsed,
		"locationName": loc.Name,
		"forecast7day": days,
		"analysis":     analysis,
	})
}

// HandleList serves recent weather analyses, newest first.
func (h *Handler) HandleList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	analyses, err := h.analyses.ListWeatherAnalyses(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to fetch weather analyses", map[string]interface{}{"error": err.Error()})
		errors.WriteHTTPError(c, errors.NewPersistenceError("Failed to fetch", err.Error()))
		return
	}
	c.JSON(200, analyses)
}
