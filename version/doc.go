// Package version exposes build information for the /version endpoint, the
// version command and the User-Agent of outbound requests.
//
// Values are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/callanalyzer/version.Version=1.0.0"
package version
