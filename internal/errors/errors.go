// Package errors provides centralized error definitions and error handling utilities
// for docreview. It defines the two error kinds a review session can produce,
// sentinel errors for the conditions callers branch on, and classification
// helpers used by the single error-display path.
//
// # Error Types
//
//   - ServiceError: a Document Service call failed (transport error, timeout,
//     non-2xx status, or an undecodable response body).
//   - ValidationError: an operation was rejected before any network call
//     (missing title or date, no PDF to OCR).
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewServiceError("publish", http.StatusBadRequest, "Title and date required")
//	err := errors.NewTransportError("next", cause)
//	err := errors.NewValidationError("Title and Date are required.").WithField("title").WithCause(errors.ErrTitleRequired)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrBusy) { ... }
//
//	var svcErr *errors.ServiceError
//	if errors.As(err, &svcErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
//	msg := errors.UserMessage(err)
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors the operator can fix and retry.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Session sentinel errors
var (
	// ErrBusy indicates that another service call is still in flight.
	ErrBusy = New("another request is in progress")
	// ErrNoDocument indicates that the operation needs a loaded document.
	ErrNoDocument = New("no document loaded")
	// ErrQueueFinished indicates that the service has no pending documents left.
	ErrQueueFinished = New("no pending documents")
)

// Validation sentinel errors
var (
	// ErrTitleRequired indicates that publish or draft was attempted without a title.
	ErrTitleRequired = New("title is required")
	// ErrDateRequired indicates that publish or draft was attempted without a date.
	ErrDateRequired = New("date is required")
	// ErrDateFormat indicates that the date is not a YYYY-MM-DD calendar date.
	ErrDateFormat = New("date must be YYYY-MM-DD")
	// ErrNoPDF indicates that re-OCR was requested for a document without a PDF.
	ErrNoPDF = New("no PDF available")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// ReviewError is the base interface for all docreview errors.
type ReviewError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the operator may retry the same action.
	IsRetryable() bool

	// IsUserFacing returns true if UserMessage is safe to show in the UI.
	IsUserFacing() bool

	// UserMessage returns the text shown to the operator.
	UserMessage() string
}

type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Severity() Severity {
	return e.severity
}

func (e *baseError) IsRetryable() bool {
	return e.retryable
}

func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

func (e *baseError) UserMessage() string {
	return e.message
}

// -----------------------------------------------------------------------------
// ServiceError
// -----------------------------------------------------------------------------

// ServiceError is returned by every Document Service call that fails.
//
// Example:
//
//	err := errors.NewServiceError("publish", 500, "WordPress rejected the post")
//	fmt.Println(err) // "publish (status 500): WordPress rejected the post"
type ServiceError struct {
	baseError
	// Op is the API operation name (next, cleanup, ocr, publish, draft, skip, log).
	Op string
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// RequestID is the X-Request-ID sent with the failed request.
	RequestID string
}

// NewServiceError creates a ServiceError for a non-success HTTP response.
// detail is the response body text (or the server's "error" field).
func NewServiceError(op string, statusCode int, detail string) *ServiceError {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = http.StatusText(statusCode)
	}
	return &ServiceError{
		baseError: baseError{
			message:    detail,
			severity:   SeverityError,
			retryable:  retryableStatus(statusCode),
			userFacing: true,
		},
		Op:         op,
		StatusCode: statusCode,
	}
}

// NewTransportError creates a ServiceError for a request that produced no
// usable response: connection failures, timeouts, cancellation, or a body
// that could not be read or decoded.
func NewTransportError(op string, cause error) *ServiceError {
	msg := "request failed"
	if cause != nil {
		msg = cause.Error()
	}
	retryable := true
	if errors.Is(cause, context.Canceled) {
		retryable = false
	}
	return &ServiceError{
		baseError: baseError{
			message:    msg,
			cause:      cause,
			severity:   SeverityError,
			retryable:  retryable,
			userFacing: true,
		},
		Op: op,
	}
}

// WithRequestID records the request id the failed call was sent with.
func (e *ServiceError) WithRequestID(id string) *ServiceError {
	e.RequestID = id
	return e
}

// Error returns the formatted error message.
func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Op, e.StatusCode, e.message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.message)
}

// Is checks if this error matches the target.
func (e *ServiceError) Is(target error) bool {
	if _, ok := target.(*ServiceError); ok {
		return true
	}
	switch target {
	case ErrTimeout:
		return errors.Is(e.cause, context.DeadlineExceeded) || e.StatusCode == http.StatusRequestTimeout
	case ErrCanceled:
		return errors.Is(e.cause, context.Canceled)
	}
	return false
}

func retryableStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code >= 500:
		return true
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError represents an operation rejected before any network call.
//
// Example:
//
//	err := errors.NewValidationError("Title and Date are required.").WithField("title")
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new ValidationError. message is shown to the
// operator verbatim.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	prefix := "validation error"
	if e.Field != "" {
		prefix = fmt.Sprintf("validation error [field=%s]", e.Field)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed if the operator repeats the action.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var reviewErr ReviewError
	if As(err, &reviewErr) {
		return reviewErr.IsRetryable()
	}
	return Is(err, ErrTimeout) || Is(err, ErrBusy)
}

// IsUserFacing returns true if the error message is safe to display to the operator.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var reviewErr ReviewError
	if As(err, &reviewErr) {
		return reviewErr.IsUserFacing()
	}
	return Is(err, ErrBusy) || Is(err, ErrNoDocument) || Is(err, ErrQueueFinished)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement ReviewError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var reviewErr ReviewError
	if As(err, &reviewErr) {
		return reviewErr.Severity()
	}
	if Is(err, ErrBusy) {
		return SeverityInfo
	}
	return SeverityError
}

// UserMessage returns the text to show the operator for err. Errors that are
// not user-facing collapse to a generic message so internals stay in the log.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var reviewErr ReviewError
	if As(err, &reviewErr) && reviewErr.IsUserFacing() {
		return reviewErr.UserMessage()
	}
	if IsUserFacing(err) {
		return err.Error()
	}
	return "unexpected error (see log for details)"
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
