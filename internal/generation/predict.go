package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mavuno-backend/internal/common/metrics"
)

// PredictConfig configures the raw predict-endpoint transport.
type PredictConfig struct {
	Endpoint       string
	APIKey         string
	MaxRetries     int
	InitialBackoff time.Duration
}

// PredictClient calls a Vertex-style predict endpoint over plain HTTP. Used
// by the structured endpoints (quality, market, weather advisories) where we
// control the full prompt and want the raw response body for diagnostics.
type PredictClient struct {
	cfg        PredictConfig
	httpClient *http.Client
	logger     Logger
}

func NewPredictClient(cfg PredictConfig, log Logger) *PredictClient {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 300 * time.Millisecond
	}
	return &PredictClient{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     log,
	}
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Content string `json:"content"`
}

type predictParameters struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type predictResponse struct {
	Predictions []struct {
		Content string `json:"content"`
	} `json:"predictions"`
}

// Generate posts the prompt and returns the model text plus the raw response
// body. Retries transient failures up to MaxRetries times with doubling
// backoff; a context cancellation aborts the wait immediately.
func (c *PredictClient) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, json.RawMessage, error) {
	body, err := json.Marshal(predictRequest{
		Instances:  []predictInstance{{Content: prompt}},
		Parameters: predictParameters{MaxOutputTokens: maxTokens, Temperature: temperature},
	})
	if err != nil {
		return "", nil, fmt.Errorf("marshal predict request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.cfg.InitialBackoff * time.Duration(1<<(attempt-1))
			c.logger.Warn("Predict call failed, retrying", map[string]interface{}{
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   lastErr.Error(),
			})
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				metrics.GenerationCalls.WithLabelValues("predict", "canceled").Inc()
				return "", nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, ctx.Err())
			}
		}

		// Build the request per attempt; a body reader is consumed on use.
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
		if err != nil {
			return "", nil, fmt.Errorf("build predict request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		raw, text, err := c.doOnce(req)
		if err == nil {
			metrics.GenerationCalls.WithLabelValues("predict", "success").Inc()
			return text, raw, nil
		}
		lastErr = err
	}

	metrics.GenerationCalls.WithLabelValues("predict", "failure").Inc()
	return "", nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, lastErr)
}

func (c *PredictClient) doOnce(req *http.Request) (json.RawMessage, string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read predict response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("predict endpoint returned status %d: %s", resp.StatusCode, truncate(raw, 512))
	}

	var decoded predictResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, "", fmt.Errorf("decode predict response: %w", err)
	}
	if len(decoded.Predictions) == 0 {
		return nil, "", fmt.Errorf("predict response contained no predictions")
	}
	return raw, decoded.Predictions[0].Content, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
