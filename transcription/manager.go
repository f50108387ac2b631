package transcription

import "github.com/kbukum/callanalyzer/provider"

// NewManager creates the manager for transcription backends. Without a
// default it picks the first available backend, trying priority first.
func NewManager(priority ...string) *provider.Manager[Provider] {
	return provider.NewManager(provider.FirstAvailable[Provider](priority...))
}
