package store

import (
	"encoding/json"
	"time"
)

// ChatRecord is one saved chat exchange.
type ChatRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	CreatedAt   time.Time `json:"created_at"`
}

// QualityReport is a persisted produce-quality assessment.
type QualityReport struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	ProductType         string    `json:"product_type"`
	ProductName         string    `json:"product_name"`
	ImageURL            string    `json:"image_url"`
	QualityGrade        string    `json:"quality_grade"`
	QualityScore        float64   `json:"quality_score"`
	VisualAssessment    []string  `json:"visual_assessment"`
	DefectsDetected     []string  `json:"defects_detected"`
	MarketReadiness     string    `json:"market_readiness"`
	Recommendations     string    `json:"recommendations"`
	EstimatedPriceRange string    `json:"estimated_price_range"`
	ShelfLife           string    `json:"shelf_life"`
	CreatedAt           time.Time `json:"created_at"`
}

// MarketTrend is a persisted market-price analysis. Pointer fields are
// nullable columns; the model may omit any of them.
type MarketTrend struct {
	ID                    string          `json:"id"`
	ProduceType           string          `json:"produce_type"`
	Location              string          `json:"location"`
	Quantity              *string         `json:"quantity"`
	QualityGrade          *string         `json:"quality_grade"`
	SuggestedPriceMin     *float64        `json:"suggested_price_min"`
	SuggestedPriceOptimal *float64        `json:"suggested_price_optimal"`
	SuggestedPriceMax     *float64        `json:"suggested_price_max"`
	DemandLevel           *string         `json:"demand_level"`
	SupplyLevel           *string         `json:"supply_level"`
	PriceTrend            *string         `json:"price_trend"`
	MarketAnalysis        *string         `json:"market_analysis"`
	WeatherImpact         *string         `json:"weather_impact"`
	Recommendations       json.RawMessage `json:"recommendations"`
	ConfidenceScore       *float64        `json:"confidence_score"`
	WeatherRaw            *string         `json:"weather_raw"`
	LLMRaw                *string         `json:"llm_raw"`
	CreatedAt             time.Time       `json:"created_at"`
}

// WeatherAnalysis is a persisted weather advisory for one location.
type WeatherAnalysis struct {
	ID                      string          `json:"id"`
	Location                string          `json:"location"`
	Latitude                float64         `json:"latitude"`
	Longitude               float64         `json:"longitude"`
	CurrentTemperature      float64         `json:"current_temperature"`
	CurrentConditions       int             `json:"current_conditions"`
	WindSpeed               float64         `json:"wind_speed"`
	Humidity                *float64        `json:"humidity"`
	Precipitation           *float64        `json:"precipitation"`
	UVIndex                 *float64        `json:"uv_index"`
	Forecast7Day            json.RawMessage `json:"forecast_7day"`
	AgriculturalImpact      *string         `json:"agricultural_impact"`
	PlantingRecommendations json.RawMessage `json:"planting_recommendations"`
	RiskAlerts              []string        `json:"risk_alerts"`
	OptimalActivities       *string         `json:"optimal_activities"`
	HistoricalComparison    *string         `json:"historical_comparison"`
	CreatedAt               time.Time       `json:"created_at"`
}

// Listing is one marketplace listing.
type Listing struct {
	ID                string    `json:"id"`
	SellerID          string    `json:"seller_id"`
	SellerName        *string   `json:"seller_name"`
	SellerEmail       *string   `json:"seller_email"`
	SellerPhone       *string   `json:"seller_phone"`
	Title             string    `json:"title"`
	Description       *string   `json:"description"`
	Category          string    `json:"category"`
	Price             float64   `json:"price"`
	Unit              string    `json:"unit"`
	QuantityAvailable float64   `json:"quantity_available"`
	Location          *string   `json:"location"`
	ImageURL          *string   `json:"image_url"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}
