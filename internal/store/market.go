package store

import (
	"context"
	"encoding/json"
)

func (s *Store) InsertMarketTrend(ctx context.Context, trend *MarketTrend) error {
	query := `
		INSERT INTO market_trends (
			produce_type, location, quantity, quality_grade,
			suggested_price_min, suggested_price_optimal, suggested_price_max,
			demand_level, supply_level, price_trend, market_analysis,
			weather_impact, recommendations, confidence_score,
			weather_raw, llm_raw
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		trend.ProduceType, trend.Location, trend.Quantity, trend.QualityGrade,
		trend.SuggestedPriceMin, trend.SuggestedPriceOptimal, trend.SuggestedPriceMax,
		trend.DemandLevel, trend.SupplyLevel, trend.PriceTrend, trend.MarketAnalysis,
		trend.WeatherImpact, nullableJSON(trend.Recommendations), trend.ConfidenceScore,
		trend.WeatherRaw, trend.LLMRaw,
	).Scan(&trend.ID, &trend.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}

// ListMarketTrends returns the most recent analyses, newest first.
func (s *Store) ListMarketTrends(ctx context.Context, limit int) ([]MarketTrend, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, produce_type, location, quantity, quality_grade,
		       suggested_price_min, suggested_price_optimal, suggested_price_max,
		       demand_level, supply_level, price_trend, market_analysis,
		       weather_impact, recommendations, confidence_score,
		       weather_raw, llm_raw, created_at
		FROM market_trends
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trends := []MarketTrend{}
	for rows.Next() {
		var t MarketTrend
		var recommendations []byte
		if err := rows.Scan(
			&t.ID, &t.ProduceType, &t.Location, &t.Quantity, &t.QualityGrade,
			&t.SuggestedPriceMin, &t.SuggestedPriceOptimal, &t.SuggestedPriceMax,
			&t.DemandLevel, &t.SupplyLevel, &t.PriceTrend, &t.MarketAnalysis,
			&t.WeatherImpact, &recommendations, &t.ConfidenceScore,
			&t.WeatherRaw, &t.LLMRaw, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		t.Recommendations = json.RawMessage(recommendations)
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// nullableJSON maps an empty document to SQL NULL so jsonb columns never
// receive the empty string.
func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
