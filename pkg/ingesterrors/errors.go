// Package ingesterrors defines the closed error taxonomy the ingestion core
// propagates to its caller (spec §7). It follows the teacher's pkg/errors
// embedding pattern (a BotError core carrying Message/Code/Context/Cause)
// generalized to the seven kinds this spec names instead of the bot's own.
package ingesterrors

import (
	"errors"
	"fmt"
	"time"
)

type Code string

const (
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeResourceNotFound  Code = "RESOURCE_NOT_FOUND"
	CodeQuotaExceeded     Code = "QUOTA_EXCEEDED"
	CodeAPIConfigError    Code = "API_CONFIG_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeTimeout           Code = "TIMEOUT"
	CodeInternal          Code = "INTERNAL"
)

// IngestError is the common shape of every error the core returns.
type IngestError struct {
	Message    string
	Code       Code
	Context    map[string]any
	Cause      error
	RetryAfter time.Duration // zero means unset
}

func (e *IngestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *IngestError) Unwrap() error {
	return e.Cause
}

func (e *IngestError) WithCause(cause error) *IngestError {
	e.Cause = cause
	return e
}

func new_(code Code, message string, context map[string]any) *IngestError {
	return &IngestError{Message: message, Code: code, Context: context}
}

func NewInvalidInput(message string, context map[string]any) *IngestError {
	return new_(CodeInvalidInput, message, context)
}

func NewResourceNotFound(message string, context map[string]any) *IngestError {
	return new_(CodeResourceNotFound, message, context)
}

func NewQuotaExceeded(message string, resetAt time.Time, context map[string]any) *IngestError {
	e := new_(CodeQuotaExceeded, message, context)
	if !resetAt.IsZero() {
		e.RetryAfter = time.Until(resetAt)
	}
	return e
}

func NewAPIConfigError(message string, context map[string]any) *IngestError {
	return new_(CodeAPIConfigError, message, context)
}

func NewServiceUnavailable(message string, retryAfter time.Duration, context map[string]any) *IngestError {
	e := new_(CodeServiceUnavailable, message, context)
	e.RetryAfter = retryAfter
	return e
}

func NewTimeout(message string, context map[string]any) *IngestError {
	return new_(CodeTimeout, message, context)
}

func NewInternal(message string, cause error, context map[string]any) *IngestError {
	e := new_(CodeInternal, message, context)
	e.Cause = cause
	return e
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var ie *IngestError
	if !errors.As(err, &ie) {
		return false
	}
	return ie.Code == code
}
