package errors

import "net/http"

// ErrorCode is the machine-readable code in the error envelope.
type ErrorCode string

const (
	// Call analysis. All terminal: the pipeline never retries.
	ErrCodeNoAudioProvided    ErrorCode = "NO_AUDIO_PROVIDED"
	ErrCodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
	ErrCodeProviderError      ErrorCode = "PROVIDER_ERROR"  // provider answered non-2xx
	ErrCodeTransportError     ErrorCode = "TRANSPORT_ERROR" // provider unreachable or reply unreadable

	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

type codeSpec struct {
	status    int
	retryable bool
}

var codeSpecs = map[ErrorCode]codeSpec{
	ErrCodeNoAudioProvided:    {http.StatusBadRequest, false},
	ErrCodeMissingCredentials: {http.StatusUnauthorized, false},
	ErrCodeProviderError:      {http.StatusBadGateway, false},
	ErrCodeTransportError:     {http.StatusBadGateway, false},
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodeNotFound:           {http.StatusNotFound, false},
	ErrCodeRateLimited:        {http.StatusTooManyRequests, true},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
}

// Status is the HTTP status a code answers with, 500 for unknown codes.
func (c ErrorCode) Status() int {
	if s, ok := codeSpecs[c]; ok {
		return s.status
	}
	return http.StatusInternalServerError
}

// Retryable reports whether a client may repeat the request unchanged.
func (c ErrorCode) Retryable() bool { return codeSpecs[c].retryable }
