package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound = errors.New("task not found")

	ErrProvider          = errors.New("llm provider failure")
	ErrMalformedResponse = errors.New("malformed llm response")
	ErrShape             = errors.New("llm response is not an array")
	ErrMissingField      = errors.New("missing required task field")
)

// ErrorKind classifies a parsing pipeline failure for clients.
type ErrorKind string

const (
	ErrorKindProvider          ErrorKind = "provider_error"
	ErrorKindMalformedResponse ErrorKind = "malformed_response"
	ErrorKindShape             ErrorKind = "shape_error"
	ErrorKindMissingField      ErrorKind = "missing_field"
	ErrorKindUnknown           ErrorKind = "unknown"
)

// MissingFieldError reports a transcript task lacking a required field.
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: task %d has no %q", ErrMissingField, e.Index, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProvider):
		return ErrorKindProvider
	case errors.Is(err, ErrMalformedResponse):
		return ErrorKindMalformedResponse
	case errors.Is(err, ErrShape):
		return ErrorKindShape
	case errors.Is(err, ErrMissingField):
		return ErrorKindMissingField
	default:
		return ErrorKindUnknown
	}
}
