package provider

import (
	"testing"
	"time"
)

type sampleConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Strict  bool          `mapstructure:"strict"`
}

func TestDecodeConfig(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want sampleConfig
	}{
		{
			name: "string duration",
			in:   map[string]any{"api_key": "k", "timeout": "90s"},
			want: sampleConfig{APIKey: "k", Timeout: 90 * time.Second},
		},
		{
			name: "typed duration",
			in:   map[string]any{"timeout": 2 * time.Minute, "base_url": "https://api.mistral.ai"},
			want: sampleConfig{BaseURL: "https://api.mistral.ai", Timeout: 2 * time.Minute},
		},
		{
			name: "weak bool",
			in:   map[string]any{"strict": "true"},
			want: sampleConfig{Strict: true},
		},
		{
			name: "nil map",
			in:   nil,
			want: sampleConfig{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got sampleConfig
			if err := DecodeConfig(tc.in, &got); err != nil {
				t.Fatalf("DecodeConfig: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecodeConfigBadDuration(t *testing.T) {
	var got sampleConfig
	if err := DecodeConfig(map[string]any{"timeout": "soon"}, &got); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestConfigMapRoundTrip(t *testing.T) {
	in := sampleConfig{APIKey: "k", BaseURL: "http://localhost:8387", Timeout: time.Minute, Strict: true}
	m, err := ConfigMap(in)
	if err != nil {
		t.Fatalf("ConfigMap: %v", err)
	}
	if m["api_key"] != "k" || m["base_url"] != "http://localhost:8387" {
		t.Errorf("unexpected map %v", m)
	}

	var out sampleConfig
	if err := DecodeConfig(m, &out); err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if out != in {
		t.Errorf("round trip got %+v, want %+v", out, in)
	}
}
