package store

import (
	"context"
	"encoding/json"

	"github.com/lib/pq"
)

func (s *Store) InsertWeatherAnalysis(ctx context.Context, wa *WeatherAnalysis) error {
	query := `
		INSERT INTO weather_analysis (
			location, latitude, longitude,
			current_temperature, current_conditions, wind_speed,
			humidity, precipitation, uv_index,
			forecast_7day, agricultural_impact, planting_recommendations,
			risk_alerts, optimal_activities, historical_comparison
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		wa.Location, wa.Latitude, wa.Longitude,
		wa.CurrentTemperature, wa.CurrentConditions, wa.WindSpeed,
		wa.Humidity, wa.Precipitation, wa.UVIndex,
		nullableJSON(wa.Forecast7Day), wa.AgriculturalImpact, nullableJSON(wa.PlantingRecommendations),
		pq.Array(wa.RiskAlerts), wa.OptimalActivities, wa.HistoricalComparison,
	).Scan(&wa.ID, &wa.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}

// ListWeatherAnalyses returns the most recent analyses, newest first.
func (s *Store) ListWeatherAnalyses(ctx context.Context, limit int) ([]WeatherAnalysis, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `
		SELECT id, location, latitude, longitude,
		       current_temperature, current_conditions, wind_speed,
		       humidity, precipitation, uv_index,
		       forecast_7day, agricultural_impact, planting_recommendations,
		       risk_alerts, optimal_activities, historical_comparison, created_at
		FROM weather_analysis
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analyses := []WeatherAnalysis{}
	for rows.Next() {
		var wa WeatherAnalysis
		var forecast, planting []byte
		if err := rows.Scan(
			&wa.ID, &wa.Location, &wa.Latitude, &wa.Longitude,
			&wa.CurrentTemperature, &wa.CurrentConditions, &wa.WindSpeed,
			&wa.Humidity, &wa.Precipitation, &wa.UVIndex,
			&forecast, &wa.AgriculturalImpact, &planting,
			pq.Array(&wa.RiskAlerts), &wa.OptimalActivities, &wa.HistoricalComparison, &wa.CreatedAt,
		); err != nil {
			return nil, err
		}
		wa.Forecast7Day = json.RawMessage(forecast)
		wa.PlantingRecommendations = json.RawMessage(planting)
		analyses = append(analyses, wa)
	}
	return analyses, rows.Err()
}
