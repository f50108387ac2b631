package analysis

import (
	"strconv"

	"github.com/kbukum/callanalyzer/transcription"
)

const (
	// maxTimelineText is the number of runes kept in a timeline entry.
	maxTimelineText = 50
	ellipsis        = "..."
)

// TimelineEntry is the display row for one segment.
type TimelineEntry struct {
	Speaker    Speaker `json:"speaker"`
	Start      float64 `json:"start"`
	Duration   float64 `json:"duration"`
	Stage      Stage   `json:"stage"`
	StageLabel string  `json:"stage_label"`
	// Text is truncated for display; the full text stays in the segment.
	Text  string `json:"text"`
	Index int    `json:"index"`
	Label string `json:"label"`
}

// BuildTimeline returns one entry per segment in input order. The stage of
// each entry is looked up by index, so duplicate segments keep their own
// stage.
func BuildTimeline(segments []transcription.Segment, stages StageMap) []TimelineEntry {
	entries := make([]TimelineEntry, len(segments))
	for i, seg := range segments {
		stage := stages.StageOf(i)
		entries[i] = TimelineEntry{
			Speaker:    SpeakerAt(i),
			Start:      seg.Start,
			Duration:   seg.Duration(),
			Stage:      stage,
			StageLabel: stage.Label(),
			Text:       Truncate(seg.Text, maxTimelineText),
			Index:      i,
			Label:      "Segment " + strconv.Itoa(i+1),
		}
	}
	return entries
}

// Truncate keeps the first limit runes of s and appends "..." when s is
// longer.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}
