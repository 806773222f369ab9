package generator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a generation failure class.
type ErrorCode string

const (
	ErrMissingAPIKey       ErrorCode = "GEN_MISSING_API_KEY"
	ErrInvalidRequest      ErrorCode = "GEN_INVALID_REQUEST"
	ErrProviderOverloaded  ErrorCode = "GEN_PROVIDER_OVERLOADED"
	ErrCompletionFailed    ErrorCode = "GEN_COMPLETION_FAILED"
	ErrResponseParseFailed ErrorCode = "GEN_RESPONSE_PARSE_FAILED"
	ErrNetworkFailed       ErrorCode = "GEN_NETWORK_FAILED"
	ErrEmptyCompletion     ErrorCode = "GEN_EMPTY_COMPLETION"
)

// GenError is the error type every generation-path failure is reported
// as. Callers receive either text or a *GenError, never both.
type GenError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

func (e *GenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GenError) Unwrap() error {
	return e.Cause
}

// Is matches by error code so errors.Is can test against sentinel
// GenErrors without comparing messages.
func (e *GenError) Is(target error) bool {
	var ge *GenError
	if !errors.As(target, &ge) {
		return false
	}
	return e.Code == ge.Code
}

// NewGenError creates a non-retryable error with the given code.
func NewGenError(code ErrorCode, message string) *GenError {
	return &GenError{Code: code, Message: message}
}

// WrapGenError wraps a cause with a code and message.
func WrapGenError(code ErrorCode, message string, cause error) *GenError {
	return &GenError{Code: code, Message: message, Cause: cause}
}

// overloadSignals are the provider substrings that mark a response as
// a transient overload. Matching is case-insensitive.
var overloadSignals = []string{"overloaded", "unavailable", "503", "busy"}

// IsOverloadMessage reports whether a provider error message signals
// temporary overload or unavailability.
func IsOverloadMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, signal := range overloadSignals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether an error is transient and may succeed on
// a later attempt.
func IsRetryable(err error) bool {
	var ge *GenError
	if !errors.As(err, &ge) {
		return false
	}
	if ge.Retryable {
		return true
	}
	switch ge.Code {
	case ErrProviderOverloaded, ErrNetworkFailed:
		return true
	default:
		return false
	}
}

// IsOverloaded reports whether an error chain classifies as a provider
// overload, either by code or by message content.
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	var ge *GenError
	if errors.As(err, &ge) && ge.Code == ErrProviderOverloaded {
		return true
	}
	return IsOverloadMessage(err.Error())
}
