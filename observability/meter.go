package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments recorded by the HTTP API, the transcription
// providers and the analysis pipeline.
type Metrics struct {
	requestTotal     metric.Int64Counter
	requestDuration  metric.Float64Histogram
	requestActive    metric.Int64UpDownCounter
	providerTotal    metric.Int64Counter
	providerDuration metric.Float64Histogram
	analysisTotal    metric.Int64Counter
	analysisDuration metric.Float64Histogram
	segmentCount     metric.Int64Histogram
	errorTotal       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.requestTotal, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("creating http.server.requests counter: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating http.server.duration histogram: %w", err)
	}
	if m.requestActive, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("creating http.server.active_requests counter: %w", err)
	}
	if m.providerTotal, err = meter.Int64Counter("transcription.requests",
		metric.WithDescription("Outbound transcription requests by provider and status"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.requests counter: %w", err)
	}
	if m.providerDuration, err = meter.Float64Histogram("transcription.duration",
		metric.WithDescription("Duration of transcription requests in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.duration histogram: %w", err)
	}
	if m.analysisTotal, err = meter.Int64Counter("analysis.runs",
		metric.WithDescription("Completed analysis runs by status"),
	); err != nil {
		return nil, fmt.Errorf("creating analysis.runs counter: %w", err)
	}
	if m.analysisDuration, err = meter.Float64Histogram("analysis.duration",
		metric.WithDescription("End-to-end analysis duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating analysis.duration histogram: %w", err)
	}
	if m.segmentCount, err = meter.Int64Histogram("analysis.segments",
		metric.WithDescription("Transcript segments per analysis"),
	); err != nil {
		return nil, fmt.Errorf("creating analysis.segments histogram: %w", err)
	}
	if m.errorTotal, err = meter.Int64Counter("errors",
		metric.WithDescription("Errors by code and component"),
	); err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}

	return m, nil
}

// RecordRequestStart increments the in-flight request count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements in-flight requests and records the completed request.
func (m *Metrics) RecordRequestEnd(ctx context.Context, method, route string, status int, duration time.Duration) {
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}

// RecordProviderCall records one outbound transcription request.
func (m *Metrics) RecordProviderCall(ctx context.Context, provider, status string, duration time.Duration) {
	m.providerTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
	m.providerDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
	))
}

// RecordAnalysis records a finished analysis run and its segment count.
func (m *Metrics) RecordAnalysis(ctx context.Context, status string, segments int, duration time.Duration) {
	m.analysisTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.analysisDuration.Record(ctx, duration.Seconds())
	if status == StatusOK {
		m.segmentCount.Record(ctx, int64(segments))
	}
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}

// Status values used as metric attributes.
const (
	StatusOK    = "ok"
	StatusError = "error"
)
