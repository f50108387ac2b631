package api

import (
	"cmp"
	"context"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/callanalyzer/analysis"
	"github.com/kbukum/callanalyzer/errors"
	"github.com/kbukum/callanalyzer/logger"
	"github.com/kbukum/callanalyzer/observability"
	"github.com/kbukum/callanalyzer/provider"
	"github.com/kbukum/callanalyzer/server"
	"github.com/kbukum/callanalyzer/transcription"
	"github.com/kbukum/callanalyzer/validation"
)

const fileField = "file"

// Providers resolves transcription backends. *provider.Manager satisfies it.
type Providers interface {
	Get(ctx context.Context) (transcription.Provider, error)
	GetByName(name string) (transcription.Provider, error)
}

// Handler serves the analysis endpoints.
type Handler struct {
	providers   Providers
	middlewares []provider.Middleware[transcription.Request, *transcription.Response]
	metrics     *observability.Metrics
	log         *logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithProviderMiddleware wraps every resolved provider with mws, outermost first.
func WithProviderMiddleware(mws ...provider.Middleware[transcription.Request, *transcription.Response]) Option {
	return func(h *Handler) { h.middlewares = append(h.middlewares, mws...) }
}

// WithMetrics records analysis runs on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler creates a Handler.
func NewHandler(providers Providers, opts ...Option) *Handler {
	h := &Handler{providers: providers, log: logger.Get("api")}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Register mounts the endpoints under r. mws run before both handlers, e.g.
// a rate limiter.
func (h *Handler) Register(r gin.IRouter, mws ...gin.HandlerFunc) {
	g := r.Group("/analyses", mws...)
	g.POST("", h.Analyze)
	g.POST("/derive", h.Derive)
}

// Analyze handles POST /analyses.
func (h *Handler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.bindAnalyze(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	p, err := h.resolve(ctx, req.Provider)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.analyzer(p).Analyze(ctx, analysis.Request{
		Source: req.Source,
		APIKey: req.APIKey,
		Model:  req.Model,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	server.RespondOK(c, result)
}

// Derive handles POST /analyses/derive.
func (h *Handler) Derive(c *gin.Context) {
	var body deriveRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, errors.InvalidInput("body", "malformed JSON: "+err.Error()))
		return
	}
	if err := validation.Validate(body); err != nil {
		h.respondError(c, err)
		return
	}
	// Recompute never reaches the provider.
	result := h.analyzer(nil).Recompute(c.Request.Context(), body.Transcript, body.Segments)
	server.RespondOK(c, result)
}

// boundAnalyze is a parsed POST /analyses request.
type boundAnalyze struct {
	Source   transcription.AudioSource
	APIKey   string
	Provider string
	Model    string
}

func (h *Handler) bindAnalyze(c *gin.Context) (*boundAnalyze, error) {
	var body analyzeRequest
	var file *multipart.FileHeader

	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, errors.InvalidInput("body", "malformed JSON: "+err.Error())
		}
	} else {
		if err := c.ShouldBind(&body); err != nil {
			return nil, bodyError(err)
		}
		fh, err := c.FormFile(fileField)
		switch {
		case err == nil:
			file = fh
		case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
		default:
			return nil, bodyError(err)
		}
	}

	if err := validation.Validate(body); err != nil {
		return nil, err
	}
	if err := validation.New().
		AtMostOne(map[string]bool{"audio_url": body.AudioURL != "", fileField: file != nil}).
		Validate(); err != nil {
		return nil, err
	}

	out := &boundAnalyze{
		APIKey:   cmp.Or(strings.TrimSpace(c.GetHeader(HeaderProviderKey)), body.APIKey),
		Provider: body.Provider,
		Model:    body.Model,
	}
	out.Source.URL = strings.TrimSpace(body.AudioURL)
	if file != nil {
		data, err := readUpload(file)
		if err != nil {
			return nil, err
		}
		out.Source.Data = data
		out.Source.FileName = file.Filename
		out.Source.ContentType = file.Header.Get("Content-Type")
	}
	if err := out.Source.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, bodyError(err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, bodyError(err)
	}
	return data, nil
}

// bodyError maps request-body read failures. An oversized body surfaces
// here because BodySizeLimit wraps the reader; some multipart paths lose the
// typed error, so the message is checked too.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return errors.BodyTooLarge(tooLarge.Limit)
	case strings.Contains(err.Error(), "request body too large"):
		e := errors.New(errors.ErrCodeInvalidInput, "Request body too large")
		e.HTTPStatus = http.StatusRequestEntityTooLarge
		return e
	}
	return errors.InvalidInput("body", err.Error())
}

// resolve picks the named provider, or the default when name is empty.
func (h *Handler) resolve(ctx context.Context, name string) (transcription.Provider, error) {
	var (
		p   transcription.Provider
		err error
	)
	if name == "" {
		p, err = h.providers.Get(ctx)
		if err != nil {
			return nil, errors.ServiceUnavailable("transcription provider").WithCause(err)
		}
	} else {
		p, err = h.providers.GetByName(name)
		if err != nil {
			return nil, errors.InvalidInput("provider", "unknown provider "+name).WithCause(err)
		}
	}
	if len(h.middlewares) > 0 {
		p = transcription.Instrument(p, h.middlewares...)
	}
	return p, nil
}

func (h *Handler) analyzer(p transcription.Provider) *analysis.Analyzer {
	return analysis.NewAnalyzer(p, analysis.WithMetrics(h.metrics))
}

func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := errors.Wrap(err, "request failed")
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.WithContext(c.Request.Context()).Error("request failed", logger.Fields(
			"code", string(appErr.Code), logger.FieldError, appErr.Error(),
		))
	}
	server.RespondWithError(c, appErr)
}
