package generation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"mavuno-backend/internal/common/errors"
)

// SchemaDescriptor pairs a JSON Schema document with its compiled form. The
// raw document is kept verbatim because it is embedded into corrective
// prompts; the compiled form is reused across requests.
type SchemaDescriptor struct {
	doc      string
	compiled *gojsonschema.Schema
}

func NewSchema(doc string) (*SchemaDescriptor, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &SchemaDescriptor{doc: doc, compiled: compiled}, nil
}

// MustSchema is for package-level schema constants; a bad document is a
// programming error.
func MustSchema(doc string) *SchemaDescriptor {
	s, err := NewSchema(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// JSON returns the schema document exactly as it was declared.
func (s *SchemaDescriptor) JSON() string {
	return s.doc
}

// Validate checks a decoded candidate object against the schema and returns
// a VALIDATION_FAILED error listing every violation.
func (s *SchemaDescriptor) Validate(candidate map[string]interface{}) error {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(candidate))
	if err != nil {
		verr := errors.NewValidationError("schema validation error")
		verr.Details = err.Error()
		return verr
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	verr := errors.NewValidationError("response does not match schema")
	verr.Details = strings.Join(details, "; ")
	return verr
}
