// Package api exposes the analysis pipeline over HTTP.
//
//	POST /api/v1/analyses         transcribe audio (file upload or URL) and analyze
//	POST /api/v1/analyses/derive  analyze a transcript the caller already has
//
// Successful responses use the {"data": ...} envelope; failures use the
// AppError envelope with the status carried by the error code.
package api
