package transcription

import (
	"context"

	"github.com/kbukum/callanalyzer/provider"
)

// AsRequestResponse exposes a Provider as a RequestResponse so it can be
// wrapped with provider middleware.
func AsRequestResponse(p Provider) provider.RequestResponse[Request, *Response] {
	return &requestResponse{p: p}
}

type requestResponse struct {
	p Provider
}

func (r *requestResponse) Name() string                         { return r.p.Name() }
func (r *requestResponse) IsAvailable(ctx context.Context) bool { return r.p.IsAvailable(ctx) }

func (r *requestResponse) Execute(ctx context.Context, req Request) (*Response, error) {
	return r.p.Transcribe(ctx, req)
}

// FromRequestResponse turns a (usually middleware-wrapped) RequestResponse
// back into a Provider.
func FromRequestResponse(rr provider.RequestResponse[Request, *Response]) Provider {
	return &fromRequestResponse{rr: rr}
}

type fromRequestResponse struct {
	rr provider.RequestResponse[Request, *Response]
}

func (f *fromRequestResponse) Name() string                         { return f.rr.Name() }
func (f *fromRequestResponse) IsAvailable(ctx context.Context) bool { return f.rr.IsAvailable(ctx) }

func (f *fromRequestResponse) Transcribe(ctx context.Context, req Request) (*Response, error) {
	return f.rr.Execute(ctx, req)
}

// Instrument wraps p with the given middleware chain.
func Instrument(p Provider, mws ...provider.Middleware[Request, *Response]) Provider {
	return FromRequestResponse(provider.Chain(mws...)(AsRequestResponse(p)))
}
