package util

import "testing"

func TestCleanSecret(t *testing.T) {
	tests := map[string]string{
		"sk-123":       "sk-123",
		"  sk-123\n":   "sk-123",
		`"sk-123"`:     "sk-123",
		`' sk-123 '`:   "sk-123",
		`"sk-123'`:     `"sk-123'`,
		`"`:            `"`,
		"":             "",
		`  "quoted"  `: "quoted",
		`"a "b" c"`:    `a "b" c`,
	}
	for in, want := range tests {
		if got := CleanSecret(in); got != want {
			t.Errorf("CleanSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in      string
		visible int
		want    string
	}{
		{"", 4, ""},
		{"short", 4, "****"},
		{"12345678", 4, "****"},
		{"sk-abcdefgh1234", 4, "****1234"},
	}
	for _, tt := range tests {
		if got := MaskSecret(tt.in, tt.visible); got != tt.want {
			t.Errorf("MaskSecret(%q, %d) = %q, want %q", tt.in, tt.visible, got, tt.want)
		}
	}
}
