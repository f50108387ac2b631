package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/callanalyzer/logger"
)

// slowRequest flags requests slower than a typical transcription round trip.
const slowRequest = 60 * time.Second

// quietPaths are probes and introspection endpoints, polled too often to log.
var quietPaths = map[string]bool{
	"/health": true, "/alive": true, "/ready": true,
	"/metrics": true, "/info": true, "/version": true,
}

// RequestLogger logs one line per request, at error level for 5xx, warn
// for 4xx and debug otherwise.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			began := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			took := time.Since(began)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, sw.status,
				logger.FieldDuration, took.Milliseconds(),
				"bytes_out", sw.written,
			)
			if r.ContentLength > 0 {
				fields["bytes_in"] = r.ContentLength
			}
			if took > slowRequest {
				fields["slow"] = true
			}

			l := log.WithContext(r.Context())
			switch {
			case sw.status >= http.StatusInternalServerError:
				l.Error("Request completed", fields)
			case sw.status >= http.StatusBadRequest:
				l.Warn("Request completed", fields)
			default:
				l.Debug("Request completed", fields)
			}
		})
	}
}
