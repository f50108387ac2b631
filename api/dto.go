package api

import "github.com/kbukum/callanalyzer/transcription"

// HeaderProviderKey carries a per-request provider credential.
const HeaderProviderKey = "X-Provider-Key"

// analyzeRequest is the form or JSON body of POST /analyses. The audio file
// itself is read separately from the multipart form.
type analyzeRequest struct {
	AudioURL string `form:"audio_url" json:"audio_url" validate:"omitempty,http_url,max=2048"`
	APIKey   string `form:"api_key" json:"api_key" validate:"max=256"`
	Provider string `form:"provider" json:"provider" validate:"omitempty,max=64"`
	Model    string `form:"model" json:"model" validate:"omitempty,max=128"`
}

// deriveRequest is the JSON body of POST /analyses/derive.
type deriveRequest struct {
	Transcript string                  `json:"transcript"`
	Segments   []transcription.Segment `json:"segments" validate:"dive"`
}
