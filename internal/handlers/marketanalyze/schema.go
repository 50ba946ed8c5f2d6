package marketanalyze

import (
	"fmt"

	"mavuno-backend/internal/generation"
)

// weatherContextSchema shapes the first-stage weather lookup whose impact
// statement feeds the market prompt.
var weatherContextSchema = generation.MustSchema(`{
	"type": "object",
	"properties": {
		"current_weather": {"type": "string"},
		"temperature": {"type": "number"},
		"rainfall_recent": {"type": "string"},
		"weather_impact_on_farming": {"type": "string"}
	},
	"required": ["current_weather"]
}`)

var marketSchema = generation.MustSchema(`{
	"type": "object",
	"properties": {
		"suggested_price_min": {"type": "number"},
		"suggested_price_optimal": {"type": "number"},
		"suggested_price_max": {"type": "number"},
		"demand_level": {"type": "string"},
		"supply_level": {"type": "string"},
		"price_trend": {"type": "string"},
		"market_analysis": {"type": "string"},
		"weather_impact": {"type": "string"},
		"recommendations": {"type": "array"},
		"confidence_score": {"type": "number"}
	},
	"required": ["suggested_price_optimal"]
}`)

func buildWeatherPrompt(location string) string {
	return fmt.Sprintf("Provide current weather conditions for %s, Kenya. Return valid JSON matching:\n%s",
		location, weatherContextSchema.JSON())
}

func buildMarketPrompt(req *Request, weatherImpact string) string {
	qualityGrade := req.QualityGrade
	if qualityGrade == "" {
		qualityGrade = "standard"
	}
	return fmt.Sprintf(
		"Analyze the market for %s in %s, Kenya with the following inputs:\n- quality_grade: %s\n- quantity: %s\n- weather_impact: %s\n\nProvide output as JSON matching schema:\n%s",
		req.ProduceType, req.Location, qualityGrade, req.Quantity, weatherImpact, marketSchema.JSON())
}
