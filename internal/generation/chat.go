package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/genai"

	"mavuno-backend/internal/common/metrics"
)

// ChatConfig configures the SDK-backed chat transport.
type ChatConfig struct {
	APIKey         string
	Model          string
	MaxRetries     int
	InitialBackoff time.Duration
}

// ChatClient talks to the Gemini API through the official SDK. Every call
// opens a fresh chat seeded with the assistant's priming history, so user
// turns never leak between requests.
type ChatClient struct {
	client  *genai.Client
	cfg     ChatConfig
	history []*genai.Content
	logger  Logger
}

// primingHistory establishes the assistant persona before the first user
// message is sent.
func primingHistory() []*genai.Content {
	return []*genai.Content{
		genai.NewContentFromText(
			"You are an agricultural expert. Your name is AgriBot. Please keep your responses focused on farming and agriculture topics.",
			genai.RoleUser,
		),
		genai.NewContentFromText(
			"I understand. I am AgriBot, an agricultural expert assistant. I will focus on providing helpful advice and information about farming, crops, soil management, and other agriculture-related topics.",
			genai.RoleModel,
		),
	}
}

func NewChatClient(ctx context.Context, cfg ChatConfig, log Logger) (*ChatClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("chat API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 300 * time.Millisecond
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &ChatClient{
		client:  client,
		cfg:     cfg,
		history: primingHistory(),
		logger:  log,
	}, nil
}

// Generate sends the prompt as a single chat turn and returns the model text
// plus the serialized provider response.
func (c *ChatClient) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, json.RawMessage, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Temperature:     genai.Ptr(float32(temperature)),
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.cfg.InitialBackoff * time.Duration(1<<(attempt-1))
			c.logger.Warn("Chat call failed, retrying", map[string]interface{}{
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   lastErr.Error(),
			})
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				metrics.GenerationCalls.WithLabelValues("chat", "canceled").Inc()
				return "", nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, ctx.Err())
			}
		}

		chat, err := c.client.Chats.Create(ctx, c.cfg.Model, config, c.history)
		if err != nil {
			lastErr = err
			continue
		}
		resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
		if err != nil {
			lastErr = err
			continue
		}

		raw, _ := json.Marshal(resp)
		metrics.GenerationCalls.WithLabelValues("chat", "success").Inc()
		return resp.Text(), raw, nil
	}

	metrics.GenerationCalls.WithLabelValues("chat", "failure").Inc()
	return "", nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, lastErr)
}
