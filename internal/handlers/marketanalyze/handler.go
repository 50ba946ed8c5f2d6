// Package marketanalyze implements the two-stage market-price advisor: a
// weather-context generation feeds a market analysis generation, and the
// combined result is stored as one market trend row.
package marketanalyze

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"mavuno-backend/internal/common/errors"
	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/generation"
	"mavuno-backend/internal/store"
)

const Endpoint = "market_analyze"

type Runner interface {
	Run(ctx context.Context, req *generation.Request) (*generation.Result, error)
}

type TrendStore interface {
	InsertMarketTrend(ctx context.Context, trend *store.MarketTrend) error
	ListMarketTrends(ctx context.Context, limit int) ([]store.MarketTrend, error)
}

type Handler struct {
	config *Config
	runner Runner
	trends TrendStore
	logger logger.Logger
}

func NewHandler(config *Config, runner Runner, trends TrendStore, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		runner: runner,
		trends: trends,
		logger: log.With(map[string]interface{}{"endpoint": Endpoint}),
	}
}

func (h *Handler) Handle(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil || req.ProduceType == "" || req.Location == "" {
		errors.WriteHTTPError(c, errors.NewValidationError("produce_type and location are required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	weatherResult, err := h.runner.Run(ctx, &generation.Request{
		Prompt:          buildWeatherPrompt(req.Location),
		Schema:          weatherContextSchema,
		MaxOutputTokens: h.config.MaxTokens,
		Temperature:     h.config.Temperature,
	})
	if err != nil {
		errors.WriteHTTPError(c, errors.NewUpstreamError(errors.ErrCodeGenerationUnavailable, "Failed to analyze market", err.Error()))
		return
	}

	// A failed weather stage degrades the market prompt but never blocks it.
	weatherImpact := ""
	if weatherResult.Parsed != nil {
		weatherImpact = generation.StringField(weatherResult.Parsed, "weather_impact_on_farming")
	}

	marketResult, err := h.runner.Run(ctx, &generation.Request{
		Prompt:          buildMarketPrompt(&req, weatherImpact),
		Schema:          marketSchema,
		MaxOutputTokens: h.config.MaxTokens,
		Temperature:     h.config.Temperature,
	})
	if err != nil {
		errors.WriteHTTPError(c, errors.NewUpstreamError(errors.ErrCodeGenerationUnavailable, "Failed to analyze market", err.Error()))
		return
	}

	trend := &store.MarketTrend{
		ProduceType: req.ProduceType,
		Location:    req.Location,
	}
	if req.Quantity != "" {
		trend.Quantity = &req.Quantity
	}
	if req.QualityGrade != "" {
		trend.QualityGrade = &req.QualityGrade
	}
	if marketResult.Parsed != nil {
		trend.SuggestedPriceMin = generation.OptFloat(marketResult.Parsed, "suggested_price_min")
		trend.SuggestedPriceOptimal = generation.OptFloat(marketResult.Parsed, "suggested_price_optimal")
		trend.SuggestedPriceMax = generation.OptFloat(marketResult.Parsed, "suggested_price_max")
		trend.DemandLevel = generation.OptString(marketResult.Parsed, "demand_level")
		trend.SupplyLevel = generation.OptString(marketResult.Parsed, "supply_level")
		trend.PriceTrend = generation.OptString(marketResult.Parsed, "price_trend")
		trend.MarketAnalysis = generation.OptString(marketResult.Parsed, "market_analysis")
		trend.WeatherImpact = generation.OptString(marketResult.Parsed, "weather_impact")
		trend.Recommendations = generation.JSONField(marketResult.Parsed, "recommendations")
		trend.ConfidenceScore = generation.OptFloat(marketResult.Parsed, "confidence_score")
	}
	if trend.WeatherImpact == nil && weatherImpact != "" {
		trend.WeatherImpact = &weatherImpact
	}
	if weatherResult.RawText != "" {
		trend.WeatherRaw = &weatherResult.RawText
	}
	if marketResult.RawText != "" {
		trend.LLMRaw = &marketResult.RawText
	}

	if err := h.trends.InsertMarketTrend(ctx, trend); err != nil {
		h.logger.Error("failed to save analysis", map[string]interface{}{"error": err.Error()})
		errors.WriteHTTPError(c, errors.NewPersistenceError("Failed to save analysis", err.Error()))
		return
	}

	c.JSON(200, gin.H{"analysis": trend})
}

// HandleList serves recent market analyses, newest first.
func (h *Handler) HandleList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	trends, err := h.trends.ListMarketTrends(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to fetch market trends", map[string]interface{}{"error": err.Error()})
		errors.WriteHTTPError(c, errors.NewPersistenceError("Failed to fetch", err.Error()))
		return
	}
	c.JSON(200, trends)
}
