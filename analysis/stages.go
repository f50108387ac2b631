package analysis

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/kbukum/callanalyzer/transcription"
)

// Stage names one of the five conversational phases of a call.
type Stage string

const (
	StageIntro            Stage = "intro"
	StageIssueDescription Stage = "issue_description"
	StageResolution       Stage = "resolution"
	StageObjection        Stage = "objection"
	StageClosing          Stage = "closing"
	// StageUnknown is reported for an index outside every stage.
	StageUnknown Stage = "unknown"
)

// Stages lists the stages in call order. Timeline lookup walks this order.
var Stages = []Stage{StageIntro, StageIssueDescription, StageResolution, StageObjection, StageClosing}

// Stage cut-offs in percent of the segment count.
const (
	introPercent      = 15
	issuePercent      = 45
	resolutionPercent = 65
	objectionPercent  = 85
)

// noContent is the display text of an empty stage.
const noContent = "No content"

// Label returns the display form: "issue_description" becomes
// "Issue description".
func (s Stage) Label() string {
	if s == "" {
		return ""
	}
	words := strings.ReplaceAll(string(s), "_", " ")
	return strings.ToUpper(words[:1]) + words[1:]
}

// StageMap partitions an ordered segment list into the five stages.
// Each stage is a contiguous sub-slice; together they cover the input with
// no gaps and no overlaps.
type StageMap struct {
	segments []transcription.Segment
	// bounds[i] is where Stages[i] starts; bounds[5] is len(segments).
	bounds [6]int
}

// SegmentStages splits segments positionally:
//
//	intro_end      = max(1, floor(n*0.15))
//	issue_end      = max(intro_end, floor(n*0.45))
//	resolution_end = max(issue_end, floor(n*0.65))
//	objection_end  = max(resolution_end, floor(n*0.85))
//
// With no segments every stage is empty. The input is not modified.
func SegmentStages(segments []transcription.Segment) StageMap {
	n := len(segments)
	m := StageMap{segments: segments}
	if n == 0 {
		return m
	}

	introEnd := max(1, n*introPercent/100)
	issueEnd := max(introEnd, n*issuePercent/100)
	resolutionEnd := max(issueEnd, n*resolutionPercent/100)
	objectionEnd := max(resolutionEnd, n*objectionPercent/100)

	// introEnd can exceed n only when n == 0, handled above.
	m.bounds = [6]int{0, introEnd, issueEnd, resolutionEnd, objectionEnd, n}
	return m
}

func stageIndex(s Stage) int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Range returns the half-open index range [start, end) of stage s.
// Unknown stages return an empty range.
func (m StageMap) Range(s Stage) (start, end int) {
	i := stageIndex(s)
	if i < 0 {
		return 0, 0
	}
	return m.bounds[i], m.bounds[i+1]
}

// Segments returns the segments of stage s. The slice has its capacity
// clipped so appending to it cannot overwrite the next stage.
func (m StageMap) Segments(s Stage) []transcription.Segment {
	start, end := m.Range(s)
	if start == end {
		return []transcription.Segment{}
	}
	return m.segments[start:end:end]
}

// Len returns the number of segments in stage s.
func (m StageMap) Len(s Stage) int {
	start, end := m.Range(s)
	return end - start
}

// Contains reports whether segment index i falls in stage s.
func (m StageMap) Contains(s Stage, i int) bool {
	start, end := m.Range(s)
	return i >= start && i < end
}

// StageOf returns the first stage, in call order, containing index i, or
// StageUnknown.
func (m StageMap) StageOf(i int) Stage {
	for _, s := range Stages {
		if m.Contains(s, i) {
			return s
		}
	}
	return StageUnknown
}

// Text joins the texts of stage s with spaces, or returns "No content".
func (m StageMap) Text(s Stage) string {
	segs := m.Segments(s)
	if len(segs) == 0 {
		return noContent
	}
	parts := make([]string, len(segs))
	for i, seg := range segs {
		parts[i] = seg.Text
	}
	return strings.Join(parts, " ")
}

// Texts returns Text for every stage.
func (m StageMap) Texts() map[Stage]string {
	out := make(map[Stage]string, len(Stages))
	for _, s := range Stages {
		out[s] = m.Text(s)
	}
	return out
}

// MarshalJSON writes every stage key in call order, empty stages as [].
func (m StageMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range Stages {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(string(s))
		buf.Write(key)
		buf.WriteByte(':')
		segs, err := json.Marshal(m.Segments(s))
		if err != nil {
			return nil, err
		}
		buf.Write(segs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
