package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// ErrorKind names the marker category of a wrapped error.
type ErrorKind string

const (
	KindExternalTool  ErrorKind = "external_tool"
	KindConfiguration ErrorKind = "configuration"
	KindNotFound      ErrorKind = "not_found"
	KindTransient     ErrorKind = "transient"
	KindUnknown       ErrorKind = "unknown"
)

// ErrorDetails summarises a wrapped error for structured logging.
type ErrorDetails struct {
	Kind    ErrorKind
	Message string
	Hint    string
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether a failed attempt should be offered another run.
// Configuration and not-found failures are terminal.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return false
	default:
		return true
	}
}

// Details classifies err and attaches an operator hint.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{Kind: KindUnknown}
	}
	details := ErrorDetails{Kind: KindUnknown, Message: strings.TrimSpace(err.Error())}
	switch {
	case errors.Is(err, ErrConfiguration):
		details.Kind = KindConfiguration
		details.Hint = "check encoder.binary exists and is executable"
	case errors.Is(err, ErrNotFound):
		details.Kind = KindNotFound
		details.Hint = "the input file was removed before it was encoded"
	case errors.Is(err, ErrExternalTool):
		details.Kind = KindExternalTool
		details.Hint = "inspect encoder stderr"
	case errors.Is(err, ErrTransient):
		details.Kind = KindTransient
		details.Hint = "retry may succeed"
	}
	return details
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
