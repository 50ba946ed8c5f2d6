// Package qualitycheck implements the produce-image quality grading
// endpoint.
package qualitycheck

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/gin-gonic/gin"

	"mavuno-backend/internal/common/auth"
	"mavuno-backend/internal/common/errors"
	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/common/storage"
	"mavuno-backend/internal/generation"
	"mavuno-backend/internal/store"
)

const Endpoint = "quality_check"

type Runner interface {
	Run(ctx context.Context, req *generation.Request) (*generation.Result, error)
}

type ReportStore interface {
	InsertQualityReport(ctx context.Context, rep *store.QualityReport) error
}

type RateLimiter interface {
	Allow(ctx context.Context, userID, endpoint string) (bool, error)
	RetryAfter() int
}

// Notifier delivers the finished report to the requesting user.
type Notifier interface {
	QualityReportReady(ctx context.Context, email, phone string, report *store.QualityReport)
}

type Handler struct {
	config   *Config
	runner   Runner
	reports  ReportStore
	limiter  RateLimiter
	uploader storage.Uploader
	notifier Notifier
	logger   logger.Logger
}

func NewHandler(config *Config, runner Runner, reports ReportStore, limiter RateLimiter, uploader storage.Uploader, notifier Notifier, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		runner:   runner,
		reports:  reports,
		limiter:  limiter,
		uploader: uploader,
		notifier: notifier,
		logger:   log.With(map[string]interface{}{"endpoint": Endpoint}),
	}
}

func (h *Handler) Handle(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductType == "" || req.ProductName == "" || req.ImageFile == "" {
		errors.WriteHTTPError(c, errors.NewValidationError("productType, productName, and imageFile are required"))
		return
	}

	user, ok := auth.UserFrom(c)
	if !ok {
		errors.WriteHTTPError(c, errors.NewAuthRequiredError())
		return
	}

	allowed, err := h.limiter.Allow(c.Request.Context(), user.ID, Endpoint)
	if err != nil {
		h.logger.Warn("rate limit check failed", map[string]interface{}{"error": err.Error()})
	} else if !allowed {
		errors.WriteHTTPError(c, errors.NewRateLimitError(h.limiter.RetryAfter()))
		return
	}

	imageData, err := base64.StdEncoding.DecodeString(req.ImageFile)
	if err != nil {
		errors.WriteHTTPError(c, errors.NewValidationError("imageFile must be valid base64"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	key := storage.ImageKey(user.ID, time.Now())
	imageURL, err := h.uploader.Upload(ctx, key, "image/jpeg", imageData)
	if err != nil {
		h.logger.Error("image upload failed", map[string]interface{}{
			"userId": user.ID,
			"error":  err.Error(),
		})
		errors.WriteHTTPError(c, errors.NewUpstreamError(errors.ErrCodeUploadFailed, "Failed to upload image", err.Error()))
		return
	}

	result, err := h.runner.Run(ctx, &generation.Request{
		Prompt:          buildPrompt(req.ProductName, req.ProductType),
		Schema:          qualitySchema,
		MaxOutputTokens: h.config.MaxTokens,
		Temperature:     h.config.Temperature,
	})
	if err != nil {
		errors.WriteHTTPError(c, errors.NewUpstreamError(errors.ErrCodeGenerationUnavailable, "Failed to process quality check", err.Error()))
		return
	}
	if result.Parsed == nil {
		h.logger.Error("quality analysis returned no usable output", map[string]interface{}{
			"userId": user.ID,
			"raw":    result.RawText,
		})
		errors.WriteHTTPError(c, errors.NewUpstreamError(errors.ErrCodeAnalysisFailed, "Failed to analyze image", ""))
		return
	}

	report := &store.QualityReport{
		UserID:              user.ID,
		ProductType:         req.ProductType,
		ProductName:         req.ProductName,
		ImageURL:            imageURL,
		QualityGrade:        generation.StringField(result.Parsed, "quality_grade"),
		QualityScore:        generation.FloatField(result.Parsed, "quality_score"),
		VisualAssessment:    generation.StringSlice(result.Parsed, "visual_assessment"),
		DefectsDetected:     generation.StringSlice(result.Parsed, "defects_detected"),
		MarketReadiness:     generation.StringField(result.Parsed, "market_readiness"),
		Recommendations:     generation.StringField(result.Parsed, "recommendations"),
		EstimatedPriceRange: generation.StringField(result.Parsed, "estimated_price_range"),
		ShelfLife:           generation.StringField(result.Parsed, "shelf_life"),
	}
	if err := h.reports.InsertQualityReport(ctx, report); err != nil {
		h.logger.Error("failed to save report", map[string]interface{}{
			"userId": user.ID,
			"error":  err.Error(),
		})
		errors.WriteHTTPError(c, errors.NewPersistenceError("Failed to save report", err.Error()))
		return
	}

	if h.notifier != nil {
		// Delivery runs outside the request lifecycle.
		go h.notifier.QualityReportReady(context.Background(), user.Email, user.Phone, report)
	}

	body := gin.H{}
	for k, v := range result.Parsed {
		body[k] = v
	}
	body["report"] = report
	body["imageUrl"] = imageURL
	c.JSON(200, body)
}
