// Package errors provides the coded error type shared by the call analysis
// pipeline, its HTTP API and its CLI. Each code maps to an HTTP status and
// a retryable flag, and every failure serializes to the same envelope:
//
//	{"error": {"code": "PROVIDER_ERROR", "message": "...", "retryable": false, "details": {...}}}
package errors
