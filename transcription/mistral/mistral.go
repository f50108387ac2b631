// Package mistral is the Mistral Voxtral transcription backend.
package mistral

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
	// ProviderName is the registered name for the Mistral provider.
	ProviderName = "mistral"

	// TranscriptionsPath is the audio transcription endpoint.
	TranscriptionsPath = "/v1/audio/transcriptions"

	DefaultBaseURL = "https://api.mistral.ai"
	DefaultModel   = "voxtral-mini-2507"
	DefaultTimeout = 120 * time.Second

	granularitySegment = "segment"
)

// Config holds configuration for the Mistral transcription provider.
type Config struct {
	// APIKey is the default credential, usually MISTRAL_API_KEY.
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
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

// Provider implements transcription.Provider against the Mistral API.
type Provider struct {
	cfg    Config
	client *httpclient.Client
	log    *logger.Logger
}

// NewProvider creates a Mistral provider. It fails only on an invalid
// base URL or timeout.
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

// Factory returns a provider.Factory that creates Mistral providers from a
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

// IsAvailable reports whether a default credential is configured. Callers
// may still supply a per-request key when it is not.
func (p *Provider) IsAvailable(_ context.Context) bool {
	return p.cfg.APIKey != ""
}

// Init logs the effective configuration.
func (p *Provider) Init(_ context.Context) error {
	p.log.Info("mistral provider ready", logger.Fields(
		"base_url", p.cfg.BaseURL,
		"model", p.cfg.Model,
		"timeout", p.cfg.Timeout.String(),
		"api_key", util.MaskSecret(p.cfg.APIKey, 4),
	))
	return nil
}

// Close releases idle connections.
func (p *Provider) Close(_ context.Context) error {
	p.client.CloseIdleConnections()
	return nil
}

// Transcribe sends one request to the Mistral transcription endpoint.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if err := req.Source.Validate(); err != nil {
		return nil, err
	}
	key, err := transcription.ResolveAPIKey(req.APIKey, p.cfg.APIKey, ProviderName)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   TranscriptionsPath,
		Auth:   httpclient.Bearer(key),
		Body:   p.body(req),
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

// body builds the JSON body for URL sources and the multipart body for
// uploaded audio.
func (p *Provider) body(req transcription.Request) any {
	model := cmp.Or(req.Model, p.cfg.Model)
	if req.Source.Kind() == transcription.SourceURL {
		return urlRequest{
			FileURL:                req.Source.URL,
			Model:                  model,
			TimestampGranularities: granularitySegment,
		}
	}
	return &httpclient.MultipartBody{
		Fields: map[string]string{
			"model":                   model,
			"timestamp_granularities": granularitySegment,
		},
		Files: []httpclient.FileField{{
			FieldName:   "file",
			FileName:    req.Source.UploadName(),
			ContentType: req.Source.ContentType,
			Data:        req.Source.Data,
		}},
	}
}

type urlRequest struct {
	FileURL                string `json:"file_url"`
	Model                  string `json:"model"`
	TimestampGranularities string `json:"timestamp_granularities"`
}
