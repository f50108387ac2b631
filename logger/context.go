package logger

import "context"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	analysisIDKey
	traceIDKey
	spanIDKey
)

// ctxFields maps context values to the log fields WithContext adds.
var ctxFields = []struct {
	key   ctxKey
	field string
}{
	{requestIDKey, FieldRequestID},
	{analysisIDKey, FieldAnalysisID},
	{traceIDKey, FieldTraceID},
	{spanIDKey, FieldSpanID},
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the id stored by ContextWithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func ContextWithAnalysisID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, analysisIDKey, id)
}

func ContextWithTrace(ctx context.Context, traceID, spanID string) context.Context {
	ctx = context.WithValue(ctx, traceIDKey, traceID)
	return context.WithValue(ctx, spanIDKey, spanID)
}

// WithContext adds the request, analysis and trace ids found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.zl.With()
	for _, f := range ctxFields {
		if v, ok := ctx.Value(f.key).(string); ok && v != "" {
			zc = zc.Str(f.field, v)
		}
	}
	return l.derive(zc)
}
