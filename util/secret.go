package util

import "strings"

// CleanSecret strips whitespace and one pair of matching quotes, as left by
// .env files and hand-written form fields.
func CleanSecret(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"`, `'`} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// MaskSecret shows the last visible characters of a credential. Empty stays
// empty so an unset key is visible in logs; short secrets are fully masked.
func MaskSecret(s string, visible int) string {
	const mask = "****"
	if s == "" {
		return ""
	}
	if len(s) <= 2*visible {
		return mask
	}
	return mask + s[len(s)-visible:]
}
