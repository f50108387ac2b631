package middleware

import (
	"net/http"

	apperrors "github.com/kbukum/callanalyzer/errors"
	"github.com/kbukum/callanalyzer/util"
)

// DefaultMaxBodySize bounds uploads when no valid limit is configured.
const DefaultMaxBodySize int64 = 25 << 20

// BodySizeLimit caps the request body at maxSize ("25MB", "512KB"). Reads
// past the cap fail with *http.MaxBytesError, which handlers map to 413.
// An empty or malformed size falls back to DefaultMaxBodySize.
func BodySizeLimit(maxSize string) Middleware {
	limit, err := util.ParseSize(maxSize)
	if err != nil {
		limit = DefaultMaxBodySize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, apperrors.BodyTooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
