package errors

import (
	"fmt"
	"maps"
	"net/http"

	"github.com/kbukum/callanalyzer/util"
)

// AppError is the error every layer returns to the HTTP API and the CLI.
// HTTPStatus and Cause never reach the client.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause records cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges details into e and returns e.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	maps.Copy(e.Details, details)
	return e
}

// New builds an AppError with the status and retryability of code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: code.Status(),
		Retryable:  code.Retryable(),
	}
}

// Wrap returns the AppError in err's chain, or an INTERNAL_ERROR carrying
// message and err. A nil err stays nil.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	e := Internal(err)
	if message != "" {
		e.Message = message
	}
	return e
}

// NoAudioProvided is returned when a request has neither an audio URL nor
// audio bytes.
func NoAudioProvided() *AppError {
	return New(ErrCodeNoAudioProvided, "No audio provided. Supply an audio URL or upload an audio file.")
}

// MissingCredentials is returned when neither the request nor the
// configuration has a key for provider.
func MissingCredentials(provider string) *AppError {
	return New(ErrCodeMissingCredentials, fmt.Sprintf("No API key available for %s.", provider)).
		WithDetails(map[string]any{"provider": provider})
}

// ProviderError keeps the provider's status and raw body.
func ProviderError(status int, body string) *AppError {
	return New(ErrCodeProviderError, fmt.Sprintf("API Error: %d - %s", status, body)).
		WithDetails(map[string]any{"status": status, "body": body})
}

func TransportError(message string, cause error) *AppError {
	return New(ErrCodeTransportError, message).WithCause(cause)
}

func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service)).
		WithDetails(map[string]any{"service": service})
}

// NotFound omits the id detail when id is empty.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource)).
		WithDetails(map[string]any{"resource": resource})
	if id != "" {
		e.Details["id"] = id
	}
	return e
}

func RateLimited(limit int) *AppError {
	return New(ErrCodeRateLimited, "Rate limit exceeded. Please slow down.").
		WithDetails(map[string]any{"limit_per_minute": limit})
}

// BodyTooLarge is INVALID_INPUT answered with 413.
func BodyTooLarge(limitBytes int64) *AppError {
	e := New(ErrCodeInvalidInput, "Request body exceeds "+util.FormatSize(limitBytes)).
		WithDetails(map[string]any{"limit_bytes": limitBytes})
	e.HTTPStatus = http.StatusRequestEntityTooLarge
	return e
}

// InvalidInput names the offending field in the details when field is set.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "Invalid input: "+reason)
	if field != "" {
		e.WithDetails(map[string]any{"field": field})
	}
	return e
}

// Validation is INVALID_INPUT with a caller-built message.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.").
		WithCause(cause)
}
