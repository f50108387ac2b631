package middleware

import "net/http"

// statusWriter captures what the request log needs from a response. The
// first WriteHeader wins and a Write without one implies 200.
type statusWriter struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status, sw.wroteHeader = code, true
		sw.ResponseWriter.WriteHeader(code)
	}
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.wroteHeader = true
	n, err := sw.ResponseWriter.Write(b)
	sw.written += int64(n)
	return n, err
}

// Unwrap exposes the original writer to http.ResponseController, which
// covers Flush and Hijack.
func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }
