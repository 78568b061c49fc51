package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingCredential is returned before any network activity when no
	// API key was configured.
	ErrMissingCredential = errors.New("API key is missing")
	ErrNoResponse        = errors.New("no response received")
	ErrMalformedPayload  = errors.New("malformed wisdom payload")
)

type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PayloadError reports a model answer that is not valid JSON (Err holds the
// parser's error) or does not match the variant's schema (Violations).
// It always matches ErrMalformedPayload.
type PayloadError struct {
	Variant    string
	Violations []FieldViolation
	Err        error
}

func (e *PayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", ErrMalformedPayload, e.Variant, e.Err)
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return fmt.Sprintf("%s (%s): %s", ErrMalformedPayload, e.Variant, strings.Join(parts, "; "))
}

func (e *PayloadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedPayload}
	}
	return []error{ErrMalformedPayload, e.Err}
}

// ErrorKind names the failure class for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, ErrNoResponse):
		return "no_response"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	default:
		return "transport_error"
	}
}
