package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/callanalyzer/errors"
	"github.com/kbukum/callanalyzer/logger"
	"github.com/kbukum/callanalyzer/observability"
	"github.com/kbukum/callanalyzer/transcription"
)

// Request is one analysis run.
type Request struct {
	Source transcription.AudioSource
	// APIKey overrides the provider's configured credential.
	APIKey string
	Model  string
}

// Analyzer runs the pipeline: one transcription call, then Derive.
// It holds no per-run state and is safe for concurrent use.
type Analyzer struct {
	provider transcription.Provider
	metrics  *observability.Metrics
	log      *logger.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMetrics records analysis runs on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithLogger replaces the default "analysis" logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Analyzer) { a.log = l }
}

// NewAnalyzer creates an Analyzer around p.
func NewAnalyzer(p transcription.Provider, opts ...Option) *Analyzer {
	a := &Analyzer{provider: p, log: logger.Get("analysis")}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze transcribes the source and derives the full Result. Errors are
// *errors.AppError.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanAnalyze)
	defer span.End()

	start := time.Now()
	id := uuid.NewString()
	ctx = logger.ContextWithAnalysisID(ctx, id)
	log := a.log.WithContext(ctx)

	observability.SetSpanAttribute(ctx, observability.AttrSourceKind, string(req.Source.Kind()))
	observability.SetSpanAttribute(ctx, observability.AttrProvider, a.provider.Name())

	if err := req.Source.Validate(); err != nil {
		return nil, a.fail(ctx, log, err, start)
	}
	if req.Source.Kind() == transcription.SourceBinary {
		observability.SetSpanAttribute(ctx, observability.AttrAudioBytes, len(req.Source.Data))
	}

	log.Info("analysis started", logger.Fields(
		logger.FieldProvider, a.provider.Name(),
		logger.FieldSource, string(req.Source.Kind()),
	))

	resp, err := a.provider.Transcribe(ctx, transcription.Request{
		Source: req.Source,
		APIKey: req.APIKey,
		Model:  req.Model,
	})
	if err != nil {
		return nil, a.fail(ctx, log, errors.Wrap(err, "transcription failed"), start)
	}
	resp.Normalize()

	result := Derive(resp.Text, resp.Segments)
	result.ID = id
	result.Provider = a.provider.Name()

	a.succeed(ctx, log, result, start)
	return result, nil
}

// Recompute is Derive with tracing and metrics, for transcripts the caller
// already holds.
func (a *Analyzer) Recompute(ctx context.Context, transcript string, segments []transcription.Segment) *Result {
	ctx, span := observability.StartSpan(ctx, observability.SpanDerive)
	defer span.End()

	start := time.Now()
	result := Derive(transcript, segments)
	a.succeed(ctx, a.log.WithContext(ctx), result, start)
	return result
}

func (a *Analyzer) succeed(ctx context.Context, log *logger.Logger, r *Result, start time.Time) {
	elapsed := time.Since(start)
	observability.SetSpanAttribute(ctx, observability.AttrSegmentCount, len(r.Segments))
	observability.SetSpanAttribute(ctx, observability.AttrWordCount, r.Metrics.WordCount)
	observability.SetSpanAttribute(ctx, observability.AttrDuration, r.Metrics.Duration)
	observability.SetSpanAttribute(ctx, observability.AttrTalkRatio, r.Metrics.TalkRatio)
	if a.metrics != nil {
		a.metrics.RecordAnalysis(ctx, observability.StatusOK, len(r.Segments), elapsed)
	}

	fields := logger.DurationFields("analyze", elapsed)
	fields[logger.FieldSegments] = len(r.Segments)
	fields["word_count"] = r.Metrics.WordCount
	fields["talk_ratio"] = r.Metrics.TalkRatio
	log.Info("analysis completed", fields)
}

func (a *Analyzer) fail(ctx context.Context, log *logger.Logger, err error, start time.Time) error {
	appErr := errors.Wrap(err, "analysis failed")
	observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(appErr.Code))
	observability.SetSpanError(ctx, appErr)
	if a.metrics != nil {
		a.metrics.RecordAnalysis(ctx, observability.StatusError, 0, time.Since(start))
		a.metrics.RecordError(ctx, string(appErr.Code), "analysis")
	}
	log.Warn("analysis failed", logger.Fields(
		logger.FieldError, appErr.Message,
		"code", string(appErr.Code),
	))
	return appErr
}
