package services

import (
	"errors"
	"strings"

	"techsphere/cmd/api/auth"
)

var (
	ErrBlogNotFound = errors.New("blog not found")
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError carries every rule a request broke, in order.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

func newValidationError(violations []string) error {
	return &ValidationError{Violations: violations}
}

// GenerationError wraps an upstream LLM failure. Message is safe for clients,
// Details is the upstream reason.
type GenerationError struct {
	Message string
	Details string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

func (e *GenerationError) Unwrap() error { return e.Err }

func mapUserErr(err error) error {
	if errors.Is(err, auth.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}
