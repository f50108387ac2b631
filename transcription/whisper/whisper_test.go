package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	apperrors "github.com/kbukum/callanalyzer/errors"
	"github.com/kbukum/callanalyzer/transcription"
)

func TestTranscribe_Multipart(t *testing.T) {
	var form map[string][]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != TranscriptionsPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		form = r.MultipartForm.Value
		_, _ = w.Write([]byte(`{"text":"hi there","language":"en","segments":[{"start":0,"end":1.2,"text":"hi there"}]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{BaseURL: srv.URL, Language: "en"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	resp, err := p.Transcribe(context.Background(), transcription.Request{
		Source: transcription.AudioSource{Data: []byte("audio"), FileName: "call.wav"},
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if auth != "" {
		t.Errorf("expected no Authorization for a keyless sidecar, got %q", auth)
	}
	if form["response_format"][0] != "verbose_json" || form["timestamp_granularities[]"][0] != "segment" {
		t.Errorf("unexpected form %v", form)
	}
	if form["model"][0] != DefaultModel || form["language"][0] != "en" {
		t.Errorf("unexpected model/language %v", form)
	}
	if resp.Text != "hi there" || len(resp.Segments) != 1 || resp.Language != "en" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestTranscribe_Errors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad audio"))
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		cfg      Config
		req      transcription.Request
		want     apperrors.ErrorCode
		wantCall bool
	}{
		{"url unsupported", Config{}, transcription.Request{Source: transcription.AudioSource{URL: "https://x/a.mp3"}}, apperrors.ErrCodeInvalidInput, false},
		{"no audio", Config{}, transcription.Request{}, apperrors.ErrCodeNoAudioProvided, false},
		{"key required", Config{RequireAPIKey: true}, transcription.Request{Source: transcription.AudioSource{Data: []byte("x")}}, apperrors.ErrCodeMissingCredentials, false},
		{"provider error", Config{}, transcription.Request{Source: transcription.AudioSource{Data: []byte("x")}}, apperrors.ErrCodeProviderError, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls.Store(0)
			tc.cfg.BaseURL = srv.URL
			p, err := NewProvider(tc.cfg)
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			_, err = p.Transcribe(context.Background(), tc.req)
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
			if got := calls.Load() == 1; got != tc.wantCall {
				t.Errorf("request sent = %v, want %v", got, tc.wantCall)
			}
		})
	}
}

func TestTranscribe_CreatedIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"text":"hello"}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	_, err = p.Transcribe(context.Background(), transcription.Request{
		Source: transcription.AudioSource{Data: []byte("x")},
	})
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeProviderError {
		t.Fatalf("expected PROVIDER_ERROR, got %v", err)
	}
	if appErr.Details["status"] != http.StatusCreated || appErr.Details["body"] != `{"text":"hello"}` {
		t.Errorf("unexpected details %v", appErr.Details)
	}
}

func TestIsAvailable(t *testing.T) {
	open, _ := NewProvider(Config{})
	if !open.IsAvailable(context.Background()) {
		t.Error("keyless sidecar should be available")
	}
	locked, _ := NewProvider(Config{RequireAPIKey: true})
	if locked.IsAvailable(context.Background()) {
		t.Error("provider requiring a key should be unavailable without one")
	}
}

func TestFactory(t *testing.T) {
	p, err := Factory()(map[string]any{"require_api_key": true, "api_key": "sk-test", "timeout": "30s"})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if !p.IsAvailable(context.Background()) || p.Name() != ProviderName {
		t.Error("expected available whisper provider")
	}
}
