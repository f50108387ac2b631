// Package server provides the HTTP server for the analysis API: a Gin engine
// mounted on a ServeMux and served over HTTP/1.1 and h2c.
//
// Middleware in server/middleware comes in two layers. The net/http stack
// (Recovery, RequestID, CORS, BodySizeLimit, RequestLogger) wraps every
// request; Gin middleware (Tracing, Metrics, RateLimit) runs after routing so
// it can label by route template.
//
// Endpoints in server/endpoint: /health, /alive, /ready, /info, /version and
// /metrics (Go runtime statistics; application metrics are exported over OTLP).
package server
