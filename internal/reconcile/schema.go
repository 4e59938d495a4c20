// Package reconcile validates parsed resume content and reconciles it
// against the authoritative profile record.
package reconcile

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume_content.json
var resumeContentSchema string

// FieldError is a single schema violation at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// SchemaError indicates the model returned JSON of the wrong shape: a
// required top-level field is missing or a field has the wrong type. It is
// deliberately distinct from the normalizer's format errors so operators can
// tell "model returned broken JSON" apart from "model returned wrong shape".
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("generated content failed schema validation:\n")
	for i, fieldErr := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, fieldErr.Field, fieldErr.Message))
	}
	return sb.String()
}

// ValidateShape checks the parsed JSON text against the resume content
// schema. All four top-level fields are required; absence of any is a hard
// failure.
func ValidateShape(jsonText string) error {
	schemaLoader := gojsonschema.NewStringLoader(resumeContentSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonText)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}

	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Errors = append(schemaErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return schemaErr
}
