package httpclient

import "net/http"

// Auth sets credentials on an outbound request. A nil Auth sends none.
type Auth func(h http.Header)

// Bearer sends "Authorization: Bearer <token>".
func Bearer(token string) Auth {
	return func(h http.Header) { h.Set("Authorization", "Bearer "+token) }
}

// APIKey sends key in header, X-API-Key when header is empty.
func APIKey(key, header string) Auth {
	if header == "" {
		header = "X-API-Key"
	}
	return func(h http.Header) { h.Set(header, key) }
}
