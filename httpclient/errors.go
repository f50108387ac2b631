package httpclient

import (
	"errors"
	"fmt"

	apperrors "github.com/kbukum/callanalyzer/errors"
)

// Kind classifies why a request failed.
type Kind string

const (
	KindTimeout    Kind = "timeout"    // deadline passed or ctx canceled
	KindConnection Kind = "connection" // refused, DNS, reset
	KindStatus     Kind = "status"     // non-2xx answer
	KindDecode     Kind = "decode"     // unreadable or malformed body
	KindRequest    Kind = "request"    // request could not be built
)

// Error is returned by Client.Do for every failure.
type Error struct {
	Kind       Kind
	StatusCode int    // 0 when no response arrived
	Body       []byte // raw body of a KindStatus failure
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("httpclient: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("httpclient: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func failure(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// checkStatus returns nil for 2xx answers.
func checkStatus(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return &Error{Kind: KindStatus, StatusCode: code, Body: body}
}

// KindOf returns the failure kind of err, empty when err did not come from
// a Client.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ToAppError maps a client failure onto the service taxonomy: a non-2xx
// answer is PROVIDER_ERROR with the status and raw body, anything else is
// TRANSPORT_ERROR. AppErrors pass through.
func ToAppError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	var e *Error
	switch {
	case !errors.As(err, &e):
		return apperrors.TransportError(err.Error(), err)
	case e.Kind == KindStatus:
		return apperrors.ProviderError(e.StatusCode, string(e.Body))
	default:
		return apperrors.TransportError(e.Err.Error(), e)
	}
}
