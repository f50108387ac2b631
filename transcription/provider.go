package transcription

import (
	"cmp"
	"context"

	"github.com/kbukum/callanalyzer/errors"
	"github.com/kbukum/callanalyzer/provider"
	"github.com/kbukum/callanalyzer/util"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider

	// Transcribe sends the audio to the remote service once and returns the
	// transcript. Errors are *errors.AppError.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// ResolveAPIKey picks the per-request key first, then the configured
// default. An empty result is MISSING_CREDENTIALS.
func ResolveAPIKey(requestKey, defaultKey, providerName string) (string, error) {
	key := cmp.Or(util.CleanSecret(requestKey), util.CleanSecret(defaultKey))
	if key == "" {
		return "", errors.MissingCredentials(providerName)
	}
	return key, nil
}
