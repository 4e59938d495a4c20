// Package server provides the HTTP API for resume generation.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/skydev929/us-resume-v2/internal/llm"
	"github.com/skydev929/us-resume-v2/internal/normalize"
	"github.com/skydev929/us-resume-v2/internal/reconcile"
	"github.com/skydev929/us-resume-v2/internal/rendering"
)

// ErrMissingInput indicates a required request field is absent or invalid.
type ErrMissingInput struct {
	Field   string
	Message string
}

func (e *ErrMissingInput) Error() string {
	return fmt.Sprintf("invalid request: %s - %s", e.Field, e.Message)
}

// ErrProfileNotFound indicates the requested profile key has no record.
type ErrProfileNotFound struct {
	Key string
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("profile not found: %s", e.Key)
}

// ErrBackend wraps a generation backend failure that is not one of the
// structured pipeline errors.
type ErrBackend struct {
	Cause error
}

func (e *ErrBackend) Error() string {
	return fmt.Sprintf("generation backend error: %v", e.Cause)
}

func (e *ErrBackend) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Client mistakes map to 4xx, upstream generation problems to 502, and
// local rendering failures to 500.
func HTTPStatus(err error) int {
	var (
		missingInput *ErrMissingInput
		notFound     *ErrProfileNotFound
		tmplNotFound *rendering.TemplateNotFoundError
		refusal      *normalize.RefusalError
		timeout      *llm.TimeoutError
		backend      *ErrBackend
		formatErr    *normalize.FormatError
		schemaErr    *reconcile.SchemaError
		renderErr    *rendering.RenderError
		templateErr  *rendering.TemplateError
	)

	switch {
	case errors.As(err, &missingInput):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &tmplNotFound):
		return http.StatusNotFound
	case errors.As(err, &refusal):
		return http.StatusUnprocessableEntity
	case errors.As(err, &timeout), errors.As(err, &backend),
		errors.As(err, &formatErr), errors.As(err, &schemaErr):
		return http.StatusBadGateway
	case errors.As(err, &renderErr), errors.As(err, &templateErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorCode returns a stable machine-readable code for an error.
func errorCode(err error) string {
	var (
		missingInput *ErrMissingInput
		notFound     *ErrProfileNotFound
		tmplNotFound *rendering.TemplateNotFoundError
		refusal      *normalize.RefusalError
		timeout      *llm.TimeoutError
		backend      *ErrBackend
		formatErr    *normalize.FormatError
		schemaErr    *reconcile.SchemaError
	)

	switch {
	case errors.As(err, &missingInput):
		return "invalid_request"
	case errors.As(err, &notFound):
		return "profile_not_found"
	case errors.As(err, &tmplNotFound):
		return "template_not_found"
	case errors.As(err, &refusal):
		return "generation_refused"
	case errors.As(err, &timeout):
		return "generation_timeout"
	case errors.As(err, &backend):
		return "backend_error"
	case errors.As(err, &formatErr):
		return "malformed_output"
	case errors.As(err, &schemaErr):
		return "schema_mismatch"
	default:
		return "internal_error"
	}
}
