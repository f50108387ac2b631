// Package observability wires OpenTelemetry tracing and metrics.
//
// Spans go to the global tracer provider:
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanAnalyze)
//	defer span.End()
//
// Metrics holds the instruments shared by the HTTP middleware, the provider
// middleware and the analyzer:
//
//	metrics.RecordProviderCall(ctx, "mistral", observability.StatusOK, elapsed)
//
// Telemetry is the component that installs OTLP HTTP exporters on Start
// and flushes them on Stop.
package observability
