// Package chat implements the conversational AgriBot endpoint.
package chat

import (
	"context"

	"github.com/gin-gonic/gin"

	"mavuno-backend/internal/common/auth"
	"mavuno-backend/internal/common/errors"
	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/generation"
	"mavuno-backend/internal/store"
)

const Endpoint = "chat"

// Runner executes one generation request end to end.
type Runner interface {
	Run(ctx context.Context, req *generation.Request) (*generation.Result, error)
}

// HistoryStore persists chat exchanges.
type HistoryStore interface {
	InsertChat(ctx context.Context, rec *store.ChatRecord) error
}

// RateLimiter gates per-user call volume.
type RateLimiter interface {
	Allow(ctx context.Context, userID, endpoint string) (bool, error)
	RetryAfter() int
}

type Handler struct {
	config  *Config
	runner  Runner
	history HistoryStore
	limiter RateLimiter
	logger  logger.Logger
}

func NewHandler(config *Config, runner Runner, history HistoryStore, limiter RateLimiter, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		runner:  runner,
		history: history,
		limiter: limiter,
		logger:  log.With(map[string]interface{}{"endpoint": Endpoint}),
	}
}

func (h *Handler) Handle(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		errors.WriteHTTPError(c, errors.NewValidationError("Message is required"))
		return
	}

	user, ok := auth.UserFrom(c)
	if !ok {
		errors.WriteHTTPError(c, errors.NewAuthRequiredError())
		return
	}

	allowed, err := h.limiter.Allow(c.Request.Context(), user.ID, Endpoint)
	if err != nil {
		// Limiter backend down; let the request through rather than block
		// every caller.
		h.logger.Warn("rate limit check failed", map[string]interface{}{"error": err.Error()})
	} else if !allowed {
		errors.WriteHTTPError(c, errors.NewRateLimitError(h.limiter.RetryAfter()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	result, err := h.runner.Run(ctx, &generation.Request{
		Prompt:          req.Message,
		MaxOutputTokens: h.config.MaxTokens,
		Temperature:     h.config.Temperature,
	})
	if err != nil {
		h.logger.Error("generation failed", map[string]interface{}{
			"userId": user.ID,
			"error":  err.Error(),
		})
		errors.WriteHTTPError(c, errors.NewUpstreamError(errors.ErrCodeGenerationUnavailable, "Failed to get response from bot", err.Error()))
		return
	}

	// The reply already exists, so history persistence failing is not worth
	// failing the request over.
	rec := &store.ChatRecord{
		UserID:      user.ID,
		UserMessage: req.Message,
		BotResponse: result.RawText,
	}
	if err := h.history.InsertChat(ctx, rec); err != nil {
		h.logger.Error("failed to save chat history", map[string]interface{}{
			"userId": user.ID,
			"error":  err.Error(),
		})
	}

	c.JSON(200, Response{BotResponse: result.RawText})
}
