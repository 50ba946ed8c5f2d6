// internal/common/errors/http.go
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPStatus maps an error code to the HTTP status the handlers respond with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeAuthRequired, ErrCodeAuthInvalid:
		return http.StatusUnauthorized
	case ErrCodeLocationNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteHTTPError renders a StandardError as the JSON error body the API
// exposes. Details and metadata stay server-side except the retryAfter hint;
// clients only ever see {"error": message}.
func WriteHTTPError(c *gin.Context, err error) {
	stdErr := normalize(err)

	body := gin.H{"error": stdErr.Message}
	if stdErr.Code == ErrCodeRateLimitExceeded {
		if retryAfter, ok := stdErr.Metadata["retryAfter"]; ok {
			body["retryAfter"] = retryAfter
		}
	}

	c.AbortWithStatusJSON(HTTPStatus(stdErr.Code), body)
}

// normalize ensures we always have a StandardError
func normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:    ErrCodeInternal,
		Message: "Internal error",
		Details: err.Error(),
	}
}
