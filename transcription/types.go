package transcription

import (
	"github.com/kbukum/callanalyzer/errors"
)

// Segment is one timestamped stretch of speech, in seconds from the start of
// the recording. End >= Start >= 0 is expected but not enforced.
type Segment struct {
	Start float64 `json:"start" validate:"gte=0"`
	End   float64 `json:"end" validate:"gte=0"`
	Text  string  `json:"text"`
}

// Duration returns End - Start.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// SourceKind tells how the audio reaches the provider.
type SourceKind string

const (
	SourceNone   SourceKind = "none"
	SourceURL    SourceKind = "url"
	SourceBinary SourceKind = "binary"
)

// DefaultFileName is sent for binary uploads that carry no name.
const DefaultFileName = "audio"

// AudioSource holds either a URL or raw audio bytes.
type AudioSource struct {
	URL         string
	Data        []byte
	FileName    string
	ContentType string
}

// Kind reports which form the source takes. A source carrying both forms
// reports SourceURL; Validate rejects it.
func (s AudioSource) Kind() SourceKind {
	switch {
	case s.URL != "":
		return SourceURL
	case len(s.Data) > 0:
		return SourceBinary
	default:
		return SourceNone
	}
}

// Validate requires exactly one of URL or Data.
func (s AudioSource) Validate() error {
	hasURL, hasData := s.URL != "", len(s.Data) > 0
	switch {
	case !hasURL && !hasData:
		return errors.NoAudioProvided()
	case hasURL && hasData:
		return errors.InvalidInput("source", "provide either an audio URL or an audio file, not both")
	}
	return nil
}

// UploadName returns FileName, or DefaultFileName when it is empty.
func (s AudioSource) UploadName() string {
	if s.FileName == "" {
		return DefaultFileName
	}
	return s.FileName
}

// Request holds parameters for a transcription call.
type Request struct {
	Source AudioSource
	// APIKey overrides the provider's configured credential for this call.
	APIKey string
	// Model overrides the provider's configured model for this call.
	Model string
}

// Response is the provider's transcript and its segments.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
}

// Normalize replaces a nil segment list with an empty one.
func (r *Response) Normalize() *Response {
	if r.Segments == nil {
		r.Segments = []Segment{}
	}
	return r
}
