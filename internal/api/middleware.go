package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mavuno-backend/internal/common/auth"
	"mavuno-backend/internal/common/errors"
	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/common/metrics"
	"mavuno-backend/internal/common/observability"
)

// TokenVerifier checks a bearer token against the auth service.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*auth.User, error)
}

// RequestLogger logs one line per request with a generated request id.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set("requestId", requestID)

		c.Next()

		log.Info("request handled", map[string]interface{}{
			"requestId": requestID,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
		})
	}
}

// Metrics records prometheus counters plus the otel request metrics for
// every request.
func Metrics(obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := http.StatusText(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(endpoint, c.Request.Method, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if c.Writer.Status() >= 400 {
			metrics.HTTPRequestErrors.WithLabelValues(endpoint, status).Inc()
		}

		if obs != nil {
			obs.RecordRequest(c.Request.Context(), endpoint, status)
			obs.RecordRequestDuration(c.Request.Context(), endpoint, time.Since(start))
		}
	}
}

// MaxBodyBytes caps request body size before handlers read it.
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// RequireAuth verifies the Authorization header and attaches the user to the
// request context.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			errors.WriteHTTPError(c, errors.NewAuthRequiredError())
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		user, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			errors.WriteHTTPError(c, err)
			return
		}

		auth.SetUser(c, user)
		c.Next()
	}
}
