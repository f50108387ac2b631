// Package validation checks inbound analysis requests.
//
// Struct tags are validated with go-playground/validator; rules that span
// fields (an audio URL or an upload, never both) use the collecting Validator.
//
// # Struct Tag Validation
//
//	type analyzeJSON struct {
//	    AudioURL string `json:"audio_url" validate:"omitempty,http_url"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.AtMostOne(map[string]bool{"audio_url": url != "", "file": file != nil})
//	if err := v.Validate(); err != nil { ... }
package validation
