package weatheranalyze

import (
	"fmt"
	"strconv"
	"strings"

	"mavuno-backend/internal/generation"
	"mavuno-backend/internal/weather"
)

var advisorySchema = generation.MustSchema(`{
	"type": "object",
	"properties": {
		"risk_level": {"type": "string", "enum": ["low", "moderate", "high", "critical"]},
		"agricultural_impact": {"type": "string"},
		"recommendations": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"activity": {"type": "string"},
					"timing": {"type": "string"},
					"reason": {"type": "string"},
					"priority": {"type": "string", "enum": ["optimal", "postpone", "monitor"]}
				}
			}
		},
		"risk_alerts": {"type": "array", "items": {"type": "string"}},
		"historical_comparison": {"type": "string"}
	}
}`)

func buildPrompt(locationName string, current weather.CurrentWeather, days []weather.DailyForecast) string {
	lines := make([]string, 0, len(days))
	for _, d := range days {
		lines = append(lines, fmt.Sprintf("%s: code %d, High: %s°C, Low: %s°C, Rain: %smm (%s%% chance)",
			d.Date, d.Weathercode, num(d.TempMax), num(d.TempMin), num(d.PrecipitationAmount), num(d.PrecipitationChance)))
	}

	return fmt.Sprintf(`You are an agricultural weather advisor for Kenyan farmers.

Location: %s
Current Weather:
- Temperature: %s°C
- Conditions: %d
- Wind: %s km/h

7-Day Forecast:
%s

Provide JSON matching schema.`,
		locationName, num(current.Temperature), current.Weathercode, num(current.Windspeed),
		strings.Join(lines, "\n"))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
