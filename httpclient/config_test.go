package httpclient

import (
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
	}

	cfg = Config{Timeout: 120 * time.Second}
	cfg.ApplyDefaults()
	if cfg.Timeout != 120*time.Second {
		t.Errorf("expected existing timeout kept, got %v", cfg.Timeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Timeout: time.Second, BaseURL: "https://api.mistral.ai"}, false},
		{"no base url", Config{Timeout: time.Second}, false},
		{"zero timeout", Config{}, true},
		{"bad scheme", Config{Timeout: time.Second, BaseURL: "ftp://host"}, true},
		{"unparseable", Config{Timeout: time.Second, BaseURL: "http://[::1"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{BaseURL: "not a url"}); err == nil {
		t.Error("expected New to reject a base url without scheme")
	}
}
