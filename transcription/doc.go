// Package transcription defines the speech-to-text contract used by the
// analysis pipeline and the types shared by its backends.
//
// A backend turns one AudioSource (a public URL or uploaded bytes) into a
// transcript and an ordered list of timestamped segments. Each call sends
// exactly one request to the remote service and never retries.
//
// # Backends
//
//   - transcription/mistral: Mistral Voxtral, URL or binary sources
//   - transcription/whisper: OpenAI-compatible Whisper, binary sources only
//
// # Usage
//
//	mgr := transcription.NewManager()
//	mgr.Register(mistral.ProviderName, mistral.Factory())
//	_ = mgr.Initialize(ctx, mistral.ProviderName, cfgMap)
//	p, _ := mgr.Get(ctx)
//	resp, err := p.Transcribe(ctx, transcription.Request{
//	    Source: transcription.AudioSource{URL: "https://example.com/call.mp3"},
//	})
package transcription
