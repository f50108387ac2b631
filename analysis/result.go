package analysis

import "github.com/kbukum/callanalyzer/transcription"

// SegmentRow is one row of the segment table: timing plus the full text.
type SegmentRow struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Result is everything derived from one transcript. A new Result is built
// for every run; nothing is cached between runs.
type Result struct {
	// ID identifies an Analyze run. Derive leaves it empty.
	ID           string                  `json:"id,omitempty"`
	Provider     string                  `json:"provider,omitempty"`
	Transcript   string                  `json:"transcript"`
	Segments     []transcription.Segment `json:"segments"`
	Stages       StageMap                `json:"stages"`
	StageTexts   map[Stage]string        `json:"stage_texts"`
	Metrics      Metrics                 `json:"metrics"`
	Timeline     []TimelineEntry         `json:"timeline"`
	SegmentTable []SegmentRow            `json:"segment_table"`
}

// Derive runs segmentation, metrics and timeline over an existing
// transcript. It is pure: the same input always yields the same Result.
func Derive(transcript string, segments []transcription.Segment) *Result {
	if segments == nil {
		segments = []transcription.Segment{}
	}
	stages := SegmentStages(segments)
	return &Result{
		Transcript:   transcript,
		Segments:     segments,
		Stages:       stages,
		StageTexts:   stages.Texts(),
		Metrics:      ExtractMetrics(transcript, segments),
		Timeline:     BuildTimeline(segments, stages),
		SegmentTable: BuildSegmentTable(segments),
	}
}

// BuildSegmentTable returns one row per segment in input order.
func BuildSegmentTable(segments []transcription.Segment) []SegmentRow {
	rows := make([]SegmentRow, len(segments))
	for i, seg := range segments {
		rows[i] = SegmentRow{Start: seg.Start, End: seg.End, Duration: seg.Duration(), Text: seg.Text}
	}
	return rows
}
