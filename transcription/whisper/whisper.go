// Package whisper is a transcription backend for OpenAI-compatible Whisper
// servers, such as a local faster-whisper sidecar or the OpenAI API.
package whisper

import (
	"cmp"
	"context"
	"net/http"
	"time"

	"github.com/kbukum/callanalyzer/errors"
	"github.com/kbukum/callanalyzer/httpclient"
	"github.com/kbukum/callanalyzer/logger"
	"github.com/kbukum/callanalyzer/provider"
	"github.com/kbukum/callanalyzer/transcription"
	"github.com/kbukum/callanalyzer/util"
	"github.com/kbukum/callanalyzer/version"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	TranscriptionsPath = "/v1/audio/transcriptions"

	DefaultBaseURL = "http://localhost:8387"
	DefaultModel   = "whisper-1"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Model    string        `yaml:"model" mapstructure:"model"`
	Language string        `yaml:"language" mapstructure:"language"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// RequireAPIKey makes a missing credential an error. A local sidecar
	// usually runs without one.
	RequireAPIKey bool `yaml:"require_api_key" mapstructure:"require_api_key"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	c.BaseURL = cmp.Or(c.BaseURL, DefaultBaseURL)
	c.Model = cmp.Or(c.Model, DefaultModel)
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	c.APIKey = util.CleanSecret(c.APIKey)
}

// Provider implements transcription.Provider using the OpenAI audio API shape.
type Provider struct {
	cfg    Config
	client *httpclient.Client
	log    *logger.Logger
}

// NewProvider creates a new Whisper transcription provider.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	client, err := httpclient.New(httpclient.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		UserAgent: version.UserAgent(),
	})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client, log: logger.Get("transcription." + ProviderName)}, nil
}

// Factory returns a provider.Factory that creates Whisper providers from a
// generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(raw map[string]any) (transcription.Provider, error) {
		var cfg Config
		if err := provider.DecodeConfig(raw, &cfg); err != nil {
			return nil, err
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the provider can authenticate without a
// per-request key.
func (p *Provider) IsAvailable(_ context.Context) bool {
	return !p.cfg.RequireAPIKey || p.cfg.APIKey != ""
}

// Init logs the effective configuration.
func (p *Provider) Init(_ context.Context) error {
	p.log.Info("whisper provider ready", logger.Fields(
		"base_url", p.cfg.BaseURL,
		"model", p.cfg.Model,
		"require_api_key", p.cfg.RequireAPIKey,
	))
	return nil
}

// Close releases idle connections.
func (p *Provider) Close(_ context.Context) error {
	p.client.CloseIdleConnections()
	return nil
}

// Transcribe uploads the audio and returns the verbose JSON transcript.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if err := req.Source.Validate(); err != nil {
		return nil, err
	}
	if req.Source.Kind() != transcription.SourceBinary {
		return nil, errors.InvalidInput("audio_url", "source not supported by "+ProviderName+": upload the audio file")
	}

	var auth httpclient.Auth
	key := cmp.Or(util.CleanSecret(req.APIKey), p.cfg.APIKey)
	switch {
	case key != "":
		auth = httpclient.Bearer(key)
	case p.cfg.RequireAPIKey:
		return nil, errors.MissingCredentials(ProviderName)
	}

	fields := map[string]string{
		"model":                     cmp.Or(req.Model, p.cfg.Model),
		"response_format":           "verbose_json",
		"timestamp_granularities[]": "segment",
	}
	if p.cfg.Language != "" {
		fields["language"] = p.cfg.Language
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   TranscriptionsPath,
		Auth:   auth,
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "file",
				FileName:    req.Source.UploadName(),
				ContentType: req.Source.ContentType,
				Data:        req.Source.Data,
			}},
		},
	})
	if err != nil {
		return nil, httpclient.ToAppError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.ProviderError(resp.StatusCode, resp.Text())
	}

	var out transcription.Response
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, httpclient.ToAppError(err)
	}
	return out.Normalize(), nil
}
