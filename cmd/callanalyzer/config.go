package main

import (
	"github.com/kbukum/callanalyzer/config"
	"github.com/kbukum/callanalyzer/observability"
	"github.com/kbukum/callanalyzer/server"
	"github.com/kbukum/callanalyzer/transcription/mistral"
	"github.com/kbukum/callanalyzer/transcription/whisper"
	"github.com/kbukum/callanalyzer/validation"
)

const serviceName = "callanalyzer"

// TranscriptionConfig selects the default backend.
type TranscriptionConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
}

// AppConfig is the full service configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Transcription TranscriptionConfig  `yaml:"transcription" mapstructure:"transcription"`
	Mistral       mistral.Config       `yaml:"mistral" mapstructure:"mistral"`
	Whisper       whisper.Config       `yaml:"whisper" mapstructure:"whisper"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = mistral.ProviderName
	}
	c.Mistral.ApplyDefaults()
	c.Whisper.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	v := validation.New().OneOf("transcription.provider", c.Transcription.Provider,
		[]string{mistral.ProviderName, whisper.ProviderName})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func loadConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
