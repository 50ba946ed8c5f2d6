package generation

import (
	"context"
	"encoding/json"
	"strings"
)

// Pipeline runs a generation request and, when a schema is attached, coerces
// the model output into a validated object. At most one corrective
// regeneration is attempted; content failures after that are reported through
// a nil Parsed field, never as an error.
type Pipeline struct {
	gen    Generator
	logger Logger
}

func NewPipeline(gen Generator, log Logger) *Pipeline {
	return &Pipeline{gen: gen, logger: log}
}

// Run executes the request. A returned error always means the provider was
// unreachable; malformed or schema-violating content is not an error.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Result, error) {
	text, raw, err := p.gen.Generate(ctx, req.Prompt, req.MaxOutputTokens, req.Temperature)
	if err != nil {
		return nil, err
	}

	result := &Result{RawText: text, Raw: raw}
	if req.Schema == nil {
		return result, nil
	}

	parsed, verr := p.extractAndValidate(text, req.Schema)
	if verr == nil {
		result.Parsed = parsed
		return result, nil
	}

	p.logger.Warn("Generated output failed schema validation, regenerating", map[string]interface{}{
		"error": verr.Error(),
	})

	corrective := correctivePrompt(req.Schema, req.Prompt)
	text, raw, err = p.gen.Generate(ctx, corrective, req.MaxOutputTokens, req.Temperature)
	if err != nil {
		return nil, err
	}

	// Keep the last attempt's raw output regardless of outcome so callers
	// can log what the model actually said.
	result.RawText = text
	result.Raw = raw

	parsed, verr = p.extractAndValidate(text, req.Schema)
	if verr != nil {
		p.logger.Warn("Corrective generation also failed validation", map[string]interface{}{
			"error": verr.Error(),
		})
		return result, nil
	}

	result.Parsed = parsed
	return result, nil
}

func (p *Pipeline) extractAndValidate(text string, schema *SchemaDescriptor) (map[string]interface{}, error) {
	candidate := extractCandidate(text)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// extractCandidate pulls the substring from the first '{' through the last
// '}' so prose or markdown fences around the object are ignored. If no brace
// pair exists the whole text is the candidate.
func extractCandidate(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

func correctivePrompt(schema *SchemaDescriptor, prompt string) string {
	return "Return ONLY JSON that matches this schema: " + schema.JSON() + "\n\n" + prompt
}
