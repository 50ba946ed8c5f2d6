package store

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mavuno-backend/internal/common/logger"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, logger.NewTestLogger(t)), mock
}

func TestInsertChat(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chat_history")).
		WithArgs("user-1", "How do I plant maize?", "Plant at the onset of rains.").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("chat-1", now))

	rec := &ChatRecord{
		UserID:      "user-1",
		UserMessage: "How do I plant maize?",
		BotResponse: "Plant at the onset of rains.",
	}
	require.NoError(t, s.InsertChat(context.Background(), rec))
	assert.Equal(t, "chat-1", rec.ID)
	assert.Equal(t, now, rec.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertQualityReport(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quality_reports")).
		WithArgs(
			"user-1", "vegetable", "Tomatoes", "https://bucket.s3.amazonaws.com/img.jpg",
			"grade_a", 82.0, pq.Array([]string{"uniform color"}), pq.Array([]string{}),
			"ready", "Sort before packing.", "KSh 80-120 per kg", "5-7 days",
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("report-1", now))

	rep := &QualityReport{
		UserID:              "user-1",
		ProductType:         "vegetable",
		ProductName:         "Tomatoes",
		ImageURL:            "https://bucket.s3.amazonaws.com/img.jpg",
		QualityGrade:        "grade_a",
		QualityScore:        82.0,
		VisualAssessment:    []string{"uniform color"},
		DefectsDetected:     []string{},
		MarketReadiness:     "ready",
		Recommendations:     "Sort before packing.",
		EstimatedPriceRange: "KSh 80-120 per kg",
		ShelfLife:           "5-7 days",
	}
	require.NoError(t, s.InsertQualityReport(context.Background(), rep))
	assert.Equal(t, "report-1", rep.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMarketTrendNullableFields(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO market_trends")).
		WithArgs(
			"maize", "Eldoret", nil, nil,
			nil, 45.0, nil,
			nil, nil, nil, nil,
			nil, nil, nil,
			nil, nil,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("trend-1", time.Now()))

	optimal := 45.0
	trend := &MarketTrend{
		ProduceType:           "maize",
		Location:              "Eldoret",
		SuggestedPriceOptimal: &optimal,
	}
	require.NoError(t, s.InsertMarketTrend(context.Background(), trend))
	assert.Equal(t, "trend-1", trend.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertWeatherAnalysis(t *testing.T) {
	s, mock := newTestStore(t)
	impact := "Good planting window"
	forecast := json.RawMessage(`[{"date":"2026-09-01"}]`)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO weather_analysis")).
		WithArgs(
			"Nakuru", -0.28, 36.07,
			24.5, 2, 12.3,
			nil, nil, nil,
			[]byte(forecast), impact, nil,
			pq.Array([]string{"frost risk"}), nil, nil,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("wa-1", time.Now()))

	wa := &WeatherAnalysis{
		Location:           "Nakuru",
		Latitude:           -0.28,
		Longitude:          36.07,
		CurrentTemperature: 24.5,
		CurrentConditions:  2,
		WindSpeed:          12.3,
		Forecast7Day:       forecast,
		AgriculturalImpact: &impact,
		RiskAlerts:         []string{"frost risk"},
	}
	require.NoError(t, s.InsertWeatherAnalysis(context.Background(), wa))
	assert.Equal(t, "wa-1", wa.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWeatherAnalysesDefaultLimit(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "location", "latitude", "longitude",
		"current_temperature", "current_conditions", "wind_speed",
		"humidity", "precipitation", "uv_index",
		"forecast_7day", "agricultural_impact", "planting_recommendations",
		"risk_alerts", "optimal_activities", "historical_comparison", "created_at",
	}).AddRow(
		"wa-1", "Nakuru", -0.28, 36.07,
		24.5, 2, 12.3,
		nil, nil, nil,
		[]byte(`[{"date":"2026-09-01"}]`), "impact", nil,
		pq.Array([]string{"frost risk"}), nil, nil, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("FROM weather_analysis")).
		WithArgs(5).
		WillReturnRows(rows)

	analyses, err := s.ListWeatherAnalyses(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	assert.Equal(t, "Nakuru", analyses[0].Location)
	assert.Equal(t, []string{"frost risk"}, analyses[0].RiskAlerts)
	assert.JSONEq(t, `[{"date":"2026-09-01"}]`, string(analyses[0].Forecast7Day))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListListingsFiltered(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "seller_id", "seller_name", "seller_email", "seller_phone",
		"title", "description", "category",
		"price", "unit", "quantity_available", "location", "image_url", "status", "created_at",
	}).AddRow(
		"listing-1", "user-1", nil, nil, nil,
		"Fresh Tomatoes", nil, "vegetable",
		90.0, "kg", 250.0, nil, nil, "active", now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("FROM market_listings")).
		WithArgs("vegetable", "active", 50).
		WillReturnRows(rows)

	listings, err := s.ListListings(context.Background(), ListingFilter{Category: "vegetable", Status: "active"})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Fresh Tomatoes", listings[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
