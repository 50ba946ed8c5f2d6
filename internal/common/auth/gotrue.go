// internal/common/auth/gotrue.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mavuno-backend/internal/common/errors"
)

// GoTrueClient verifies end-user bearer tokens against the hosted auth
// service (a GoTrue-compatible endpoint, as exposed by the managed
// datastore backend).
type GoTrueClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// User represents the authenticated identity returned by the auth service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// NewGoTrueClient creates a new instance of GoTrueClient.
func NewGoTrueClient(baseURL, serviceKey string, timeout time.Duration) *GoTrueClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &GoTrueClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// VerifyToken resolves an access token to the user it belongs to. A token
// the auth service rejects (expired, revoked, malformed) yields an
// AUTH_INVALID error; transport problems yield a retryable error.
func (g *GoTrueClient) VerifyToken(ctx context.Context, token string) (*User, error) {
	userURL := fmt.Sprintf("%s/auth/v1/user", g.baseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", userURL, nil)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "HTTP_REQUEST_ERROR",
			Message:   "Failed to create auth request",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", g.serviceKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "NETWORK_ERROR",
			Message:   "Failed to reach auth service",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now().UTC(),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errors.NewAuthInvalidError(fmt.Sprintf("auth service returned %d", resp.StatusCode))
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &errors.StandardError{
			Code:      "AUTH_SERVICE_ERROR",
			Message:   "Auth service error during token verification",
			Details:   string(body),
			Retryable: isTransientHTTPError(resp.StatusCode),
			Timestamp: time.Now().UTC(),
		}
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &errors.StandardError{
			Code:      "DESERIALIZATION_ERROR",
			Message:   "Failed to decode auth response",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	if user.ID == "" {
		return nil, errors.NewAuthInvalidError("auth service returned no user id")
	}

	return &user, nil
}

// isTransientHTTPError returns true if the HTTP status code indicates a potentially transient error.
func isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
