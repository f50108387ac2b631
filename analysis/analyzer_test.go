package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/kbukum/callanalyzer/errors"
	"github.com/kbukum/callanalyzer/logger"
	"github.com/kbukum/callanalyzer/observability"
	"github.com/kbukum/callanalyzer/transcription"
)

type fakeProvider struct {
	resp  *transcription.Response
	err   error
	calls int
	last  transcription.Request
}

func (f *fakeProvider) Name() string                       { return "fake" }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return true }
func (f *fakeProvider) Transcribe(_ context.Context, req transcription.Request) (*transcription.Response, error) {
	f.calls++
	f.last = req
	return f.resp, f.err
}

func sampleResponse() *transcription.Response {
	return &transcription.Response{
		Text: "Hello thanks for calling. Um my internet is down. Let me check. So it works now.",
		Segments: []transcription.Segment{
			{Start: 0, End: 3, Text: "Hello thanks for calling."},
			{Start: 3, End: 6, Text: "Um my internet is down."},
			{Start: 6, End: 10, Text: "Let me check."},
			{Start: 10, End: 12, Text: "So it works now."},
		},
	}
}

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func newMetrics(t *testing.T) *observability.Metrics {
	t.Helper()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m
}

func TestAnalyze(t *testing.T) {
	recorder := withRecorder(t)
	fp := &fakeProvider{resp: sampleResponse()}
	a := NewAnalyzer(fp, WithLogger(logger.Nop()), WithMetrics(newMetrics(t)))

	r, err := a.Analyze(context.Background(), Request{
		Source: transcription.AudioSource{URL: "https://example.com/call.mp3"},
		APIKey: "caller-key",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if fp.calls != 1 {
		t.Errorf("expected one provider call, got %d", fp.calls)
	}
	if fp.last.APIKey != "caller-key" || fp.last.Source.URL != "https://example.com/call.mp3" {
		t.Errorf("request not forwarded: %+v", fp.last)
	}
	if r.ID == "" || r.Provider != "fake" {
		t.Errorf("expected id and provider, got %q %q", r.ID, r.Provider)
	}
	if len(r.Timeline) != 4 || r.Metrics.Duration != 12 {
		t.Errorf("unexpected result %+v", r.Metrics)
	}
	if r.Metrics.TalkRatio != 7.0/5.0 {
		t.Errorf("TalkRatio = %v, want 1.4", r.Metrics.TalkRatio)
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != observability.SpanAnalyze {
		t.Fatalf("expected one analyze span, got %d", len(spans))
	}
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		provErr   error
		want      apperrors.ErrorCode
		wantCalls int
	}{
		{"no audio", Request{}, nil, apperrors.ErrCodeNoAudioProvided, 0},
		{"both sources", Request{Source: transcription.AudioSource{URL: "https://x/a.mp3", Data: []byte("x")}}, nil, apperrors.ErrCodeInvalidInput, 0},
		{"provider error", Request{Source: transcription.AudioSource{URL: "https://x/a.mp3"}}, apperrors.ProviderError(401, "Unauthorized"), apperrors.ErrCodeProviderError, 1},
		{"missing credentials", Request{Source: transcription.AudioSource{Data: []byte("x")}}, apperrors.MissingCredentials("fake"), apperrors.ErrCodeMissingCredentials, 1},
		{"unexpected error", Request{Source: transcription.AudioSource{Data: []byte("x")}}, context.Canceled, apperrors.ErrCodeInternal, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := withRecorder(t)
			fp := &fakeProvider{err: tc.provErr}
			a := NewAnalyzer(fp, WithLogger(logger.Nop()), WithMetrics(newMetrics(t)))

			r, err := a.Analyze(context.Background(), tc.req)
			if r != nil {
				t.Error("expected no result on failure")
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
			if fp.calls != tc.wantCalls {
				t.Errorf("provider calls = %d, want %d", fp.calls, tc.wantCalls)
			}
			spans := recorder.Ended()
			if len(spans) != 1 || spans[0].Status().Code != codes.Error {
				t.Errorf("expected one failed span")
			}
		})
	}
}

func TestAnalyze_NilSegmentsFromProvider(t *testing.T) {
	fp := &fakeProvider{resp: &transcription.Response{Text: "hi"}}
	r, err := NewAnalyzer(fp, WithLogger(logger.Nop())).Analyze(context.Background(), Request{
		Source: transcription.AudioSource{Data: []byte("x")},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if r.Segments == nil || len(r.Timeline) != 0 || r.Metrics.Duration != 0 {
		t.Errorf("unexpected result for empty segments %+v", r)
	}
}

func TestDerive_Deterministic(t *testing.T) {
	resp := sampleResponse()
	first, err := json.Marshal(Derive(resp.Text, resp.Segments))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, _ := json.Marshal(Derive(resp.Text, resp.Segments))
	if !bytes.Equal(first, second) {
		t.Error("Derive is not deterministic")
	}
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	resp := sampleResponse()
	before, _ := json.Marshal(resp.Segments)
	_ = Derive(resp.Text, resp.Segments)
	after, _ := json.Marshal(resp.Segments)
	if !bytes.Equal(before, after) {
		t.Error("Derive modified its input")
	}
}

func TestDerive_TimelineMatchesStages(t *testing.T) {
	r := Derive("", makeSegments(37))
	for i, e := range r.Timeline {
		if !r.Stages.Contains(e.Stage, i) {
			t.Errorf("timeline entry %d stage %s disagrees with stage map", i, e.Stage)
		}
	}
	if r.ID != "" {
		t.Error("Derive must not assign an id")
	}
}

func TestDerive_JSONShape(t *testing.T) {
	data, err := json.Marshal(Derive("", nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"transcript", "segments", "stages", "stage_texts", "metrics", "timeline", "segment_table"} {
		if _, ok := out[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if string(out["segments"]) != "[]" || string(out["timeline"]) != "[]" {
		t.Errorf("expected empty arrays, got %s %s", out["segments"], out["timeline"])
	}
}

func TestRecompute(t *testing.T) {
	recorder := withRecorder(t)
	a := NewAnalyzer(&fakeProvider{}, WithLogger(logger.Nop()))
	r := a.Recompute(context.Background(), "so um", makeSegments(2))
	if r.Metrics.FillerCount != 2 {
		t.Errorf("FillerCount = %d, want 2", r.Metrics.FillerCount)
	}
	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != observability.SpanDerive {
		t.Errorf("expected one derive span")
	}
}
