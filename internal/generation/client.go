// Package generation holds the text-generation pipeline: prompt in,
// schema-validated object out. Two transports implement the Generator
// contract (a raw predict endpoint and a chat-style SDK); the extractor on
// top of them is transport-agnostic.
package generation

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrGenerationUnavailable is returned when the provider could not be
	// reached after the bounded transport retries.
	ErrGenerationUnavailable = errors.New("GENERATION_UNAVAILABLE")
)

// Request describes one generation call. Immutable; built per request and
// discarded after use.
type Request struct {
	Prompt          string
	Schema          *SchemaDescriptor
	MaxOutputTokens int
	Temperature     float64
}

// Result is what the pipeline hands back to a handler. Parsed is nil if
// extraction or validation failed even after the corrective attempt; RawText
// and Raw always describe the last attempt so callers can log diagnostics.
type Result struct {
	RawText string
	Parsed  map[string]interface{}
	Raw     json.RawMessage
}

// Generator performs a single generation call against a provider. Transport
// failures (connection errors, non-2xx after retries) surface as
// ErrGenerationUnavailable; content problems are not this layer's concern.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (text string, raw json.RawMessage, err error)
}

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
