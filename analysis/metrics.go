package analysis

import (
	"strings"

	"github.com/kbukum/callanalyzer/transcription"
)

// FillerWords are counted as case-insensitive substrings of the transcript,
// so "so" also matches inside "also".
var FillerWords = []string{"um", "uh", "like", "you know", "so"}

// Metrics summarizes one call.
type Metrics struct {
	// Duration is the End of the last segment in input order.
	Duration        float64 `json:"duration"`
	WordCount       int     `json:"word_count"`
	TalkRatio       float64 `json:"talk_ratio"`
	FillerCount     int     `json:"filler_count"`
	FillerFrequency float64 `json:"filler_frequency"`
}

// ExtractMetrics derives Metrics from the transcript and its segments.
func ExtractMetrics(transcript string, segments []transcription.Segment) Metrics {
	m := Metrics{
		WordCount:   len(strings.Fields(transcript)),
		TalkRatio:   TalkRatio(segments),
		FillerCount: CountFillers(transcript),
	}
	if len(segments) > 0 {
		m.Duration = segments[len(segments)-1].End
	}
	if m.WordCount > 0 {
		m.FillerFrequency = float64(m.FillerCount) / float64(m.WordCount)
	}
	return m
}

// CountFillers sums non-overlapping substring occurrences of every filler
// word in the lower-cased text.
func CountFillers(text string) int {
	lower := strings.ToLower(text)
	total := 0
	for _, w := range FillerWords {
		total += strings.Count(lower, w)
	}
	return total
}
