// Package analysis turns a timestamped transcript into a call analysis.
//
// The derivation is pure and positional. SegmentStages splits the segments
// into intro, issue description, resolution, objection and closing by
// fixed fractions of the segment count. SpeakerAt alternates Agent and
// Customer by index. ExtractMetrics and BuildTimeline read the same slice
// and never modify it.
//
// Analyzer adds the one side effect: a single transcription call before
// the derivation.
package analysis
