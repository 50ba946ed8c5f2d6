// Package api wires the HTTP surface: routing, middleware, and server
// lifecycle.
package api

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mavuno-backend/internal/common/config"
	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/common/observability"
	"mavuno-backend/internal/handlers/chat"
	"mavuno-backend/internal/handlers/listings"
	"mavuno-backend/internal/handlers/marketanalyze"
	"mavuno-backend/internal/handlers/qualitycheck"
	"mavuno-backend/internal/handlers/weatheranalyze"
)

// HealthCheck is a named dependency ping surfaced by /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps collects everything the router needs.
type Deps struct {
	Config        *config.Config
	Logger        logger.Logger
	Observability *observability.Observability
	Verifier      TokenVerifier

	Chat           *chat.Handler
	QualityCheck   *qualitycheck.Handler
	MarketAnalyze  *marketanalyze.Handler
	WeatherAnalyze *weatheranalyze.Handler
	Listings       *listings.Handler

	HealthChecks []HealthCheck
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(deps.Logger))
	router.Use(Metrics(deps.Observability))
	router.Use(MaxBodyBytes(deps.Config.Server.MaxBodyBytes))

	corsConfig := cors.DefaultConfig()
	if len(deps.Config.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = deps.Config.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	requireAuth := RequireAuth(deps.Verifier)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/chat", requireAuth, deps.Chat.Handle)
		apiGroup.POST("/quality-check", requireAuth, deps.QualityCheck.Handle)
		apiGroup.POST("/market-analyze", deps.MarketAnalyze.Handle)
		apiGroup.GET("/market-trends", deps.MarketAnalyze.HandleList)
		apiGroup.POST("/weather-analyze", deps.WeatherAnalyze.Handle)
		apiGroup.GET("/weather-analyses", deps.WeatherAnalyze.HandleList)
		apiGroup.GET("/listings", deps.Listings.HandleList)
		apiGroup.POST("/listings", requireAuth, deps.Listings.HandleCreate)
	}

	router.GET("/healthz", healthHandler(deps.HealthChecks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func healthHandler(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := 200
		body := gin.H{"status": "ok"}
		for _, check := range checks {
			if err := check.Check(c.Request.Context()); err != nil {
				status = 503
				body["status"] = "degraded"
				body[check.Name] = err.Error()
			}
		}
		c.JSON(status, body)
	}
}
