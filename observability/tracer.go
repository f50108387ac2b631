package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName scopes the spans and instruments of this module.
const instrumentationName = "github.com/kbukum/callanalyzer"

// StartSpan starts a span on the global tracer provider. Before telemetry
// starts, or with export disabled, that is the OTel no-op provider.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// SpanFromContext returns the span in ctx, a no-op span when there is none.
func SpanFromContext(ctx context.Context) trace.Span { return trace.SpanFromContext(ctx) }

// SetSpanAttribute sets key on the recording span in ctx. Values of
// unsupported types are dropped.
func SetSpanAttribute(ctx context.Context, key string, value any) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if kv, ok := toAttribute(key, value); ok {
		span.SetAttributes(kv)
	}
}

func toAttribute(key string, value any) (attribute.KeyValue, bool) {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v), true
	case int:
		return attribute.Int(key, v), true
	case int64:
		return attribute.Int64(key, v), true
	case float64:
		return attribute.Float64(key, v), true
	case bool:
		return attribute.Bool(key, v), true
	case []string:
		return attribute.StringSlice(key, v), true
	}
	return attribute.KeyValue{}, false
}

// SetSpanError marks the recording span in ctx failed.
func SetSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceIDs returns the trace and span ids of the span in ctx, empty when none.
func TraceIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}

// Span names.
const (
	SpanAnalyze    = "analysis.analyze"
	SpanDerive     = "analysis.derive"
	SpanTranscribe = "transcription.transcribe"
)

// Attribute keys.
const (
	AttrProvider     = "transcription.provider"
	AttrSourceKind   = "audio.source"
	AttrAudioBytes   = "audio.bytes"
	AttrSegmentCount = "transcript.segments"
	AttrWordCount    = "transcript.words"
	AttrDuration     = "call.duration_s"
	AttrTalkRatio    = "call.talk_ratio"
	AttrRequestID    = "request.id"
	AttrErrorCode    = "error.code"
)
