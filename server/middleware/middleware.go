package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// Middleware wraps the server handler, so it also sees requests gin never
// routes.
type Middleware func(http.Handler) http.Handler

// Chain composes mws with the first one outermost.
func Chain(mws ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for _, mw := range slices.Backward(mws) {
			h = mw(h)
		}
		return h
	}
}

// GinWrap runs mw inside a gin chain, e.g. to limit body size on a single
// route group. The gin chain is aborted when mw does not call through.
// mw sees gin's ResponseWriter only through the request it forwards, so
// writers that wrap the response (RequestLogger) belong at server level.
func GinWrap(mw Middleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}
