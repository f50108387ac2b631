// Package provider is a small generic framework for swappable backends.
//
// A RequestResponse[I, O] takes one input and returns one output. A Manager
// builds providers from named factories, resolves the default or asks a
// Selector, and closes them on shutdown. Middleware decorates them:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out]("transcription"),
//	)(raw)
//
// None of the middleware retries: every Execute reaches the inner provider
// exactly once.
package provider
