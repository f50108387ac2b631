package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config is shared by every request of a Client.
type Config struct {
	BaseURL   string            `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration     `yaml:"timeout" mapstructure:"timeout"` // whole request, body included
	Headers   map[string]string `yaml:"headers" mapstructure:"headers"`
	UserAgent string            `yaml:"user_agent" mapstructure:"user_agent"`

	// Auth applies unless the request brings its own.
	Auth Auth `yaml:"-" mapstructure:"-"`
}

func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.BaseURL)
	switch {
	case err != nil:
		return fmt.Errorf("httpclient: invalid base_url: %w", err)
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("httpclient: base_url must be http or https, got %q", c.BaseURL)
	}
	return nil
}
