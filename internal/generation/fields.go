package generation

import "encoding/json"

// Helpers for lifting typed values out of a validated Parsed map. Schema
// validation has already run, so misses here are absent optional fields, not
// errors.

func StringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func FloatField(m map[string]interface{}, key string) float64 {
	f, _ := m[key].(float64)
	return f
}

func OptString(m map[string]interface{}, key string) *string {
	if s, ok := m[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

func OptFloat(m map[string]interface{}, key string) *float64 {
	if f, ok := m[key].(float64); ok {
		return &f
	}
	return nil
}

func StringSlice(m map[string]interface{}, key string) []string {
	raw, ok := m[key].([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// JSONField re-marshals a structured value (arrays of objects and the like)
// for storage in a jsonb column. Returns nil when the key is absent.
func JSONField(m map[string]interface{}, key string) json.RawMessage {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
