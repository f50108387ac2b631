package provider

import (
	"context"
	"slices"

	"github.com/kbukum/callanalyzer/errors"
)

// Provider is the base contract of every backend.
type Provider interface {
	Name() string
	// IsAvailable reports whether the provider can take requests without a
	// caller-supplied credential. It must not touch the network.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from its decoded config section.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// RequestResponse is a provider that answers one input with one output,
// such as a single HTTP call to a transcription service.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Initializable providers validate their configuration when the Manager
// initializes them.
type Initializable interface {
	Init(ctx context.Context) error
}

// Closeable providers release resources, e.g. idle connections, when the
// Manager closes.
type Closeable interface {
	Close(ctx context.Context) error
}

// Middleware decorates a RequestResponse with a cross-cutting concern.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middleware so the first one listed sees the call first:
// Chain(a, b)(p) == a(b(p)).
func Chain[I, O any](mws ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for _, mw := range slices.Backward(mws) {
			inner = mw(inner)
		}
		return inner
	}
}

// errorCode labels telemetry with the AppError code of err.
func errorCode(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "UNKNOWN"
}
