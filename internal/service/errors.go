package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MimeLyc/dreamsense/pkg/log"
)

type ErrorType int

const (
	ErrNetwork ErrorType = iota
	ErrAPI
	ErrParse
	ErrEmptyResponse
	ErrValidation
	ErrConfig
	ErrUnknown
)

// Error is the error type of the interpretation path.
type Error struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *Error) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ctxParts := make([]string, 0, len(keys))
		for _, k := range keys {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

func (t ErrorType) String() string {
	switch t {
	case ErrNetwork:
		return "Network"
	case ErrAPI:
		return "API"
	case ErrParse:
		return "Parse"
	case ErrEmptyResponse:
		return "EmptyResponse"
	case ErrValidation:
		return "Validation"
	case ErrConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

// Advice returns an operator hint for the error's type.
func Advice(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Please review detailed error information"
	}
	switch e.Type {
	case ErrNetwork:
		return "Please check network connectivity to the interpretation service"
	case ErrAPI:
		return "Please check the API key, model name and the provider's service status"
	case ErrParse:
		return "The interpretation service answered with an unexpected payload; check the endpoint URL"
	case ErrEmptyResponse:
		return "The model returned no text; try a different model or a larger token limit"
	case ErrValidation:
		return "Please verify the request fields"
	case ErrConfig:
		return "Please check environment variables and the dictionary file"
	default:
		return "Please review detailed error information"
	}
}

// LogFallback records why the local dictionary answered instead of the remote service.
func LogFallback(err error) {
	log.Warn("remote interpretation failed, using local dictionary: %v (advice: %s)", err, Advice(err))
}

func IsErrorType(err error, errorType ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errorType
	}
	return false
}

func WrapError(err error, errorType ErrorType, message string) *Error {
	return NewErrorWithCause(errorType, message, err)
}
