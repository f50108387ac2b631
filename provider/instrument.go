package provider

import (
	"context"
	"time"

	"github.com/kbukum/callanalyzer/logger"
	"github.com/kbukum/callanalyzer/observability"
)

// ExecuteFunc is the next step of a RequestResponse call.
type ExecuteFunc[I, O any] func(ctx context.Context, input I) (O, error)

// Around builds a Middleware from a function that wraps Execute. Name and
// IsAvailable pass through to the inner provider.
func Around[I, O any](fn func(ctx context.Context, name string, input I, next ExecuteFunc[I, O]) (O, error)) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &wrapped[I, O]{RequestResponse: inner, around: fn}
	}
}

type wrapped[I, O any] struct {
	RequestResponse[I, O]
	around func(context.Context, string, I, ExecuteFunc[I, O]) (O, error)
}

func (w *wrapped[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return w.around(ctx, w.Name(), input, w.RequestResponse.Execute)
}

// WithLogging logs every call with its duration. Failures are logged at
// error level with the AppError code.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return Around(func(ctx context.Context, name string, input I, next ExecuteFunc[I, O]) (O, error) {
		start := time.Now()
		out, err := next(ctx, input)

		fields := logger.DurationFields("execute", time.Since(start))
		fields[logger.FieldProvider] = name
		l := log.WithContext(ctx)
		if err != nil {
			fields[logger.FieldError] = err.Error()
			fields["code"] = errorCode(err)
			l.Error("provider execute failed", fields)
			return out, err
		}
		l.Debug("provider execute ok", fields)
		return out, nil
	})
}

// WithMetrics counts calls per provider and status, records their
// duration, and counts failures by error code.
func WithMetrics[I, O any](m *observability.Metrics) Middleware[I, O] {
	return Around(func(ctx context.Context, name string, input I, next ExecuteFunc[I, O]) (O, error) {
		start := time.Now()
		out, err := next(ctx, input)

		status := observability.StatusOK
		if err != nil {
			status = observability.StatusError
			m.RecordError(ctx, errorCode(err), name)
		}
		m.RecordProviderCall(ctx, name, status, time.Since(start))
		return out, err
	})
}

// WithTracing runs every call in a span named "<prefix>.<provider>".
func WithTracing[I, O any](prefix string) Middleware[I, O] {
	return Around(func(ctx context.Context, name string, input I, next ExecuteFunc[I, O]) (O, error) {
		ctx, span := observability.StartSpan(ctx, prefix+"."+name)
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrProvider, name)

		out, err := next(ctx, input)
		if err != nil {
			observability.SetSpanAttribute(ctx, observability.AttrErrorCode, errorCode(err))
			observability.SetSpanError(ctx, err)
		}
		return out, err
	})
}
