package main

import (
	"context"

	"github.com/kbukum/callanalyzer/api"
	"github.com/kbukum/callanalyzer/bootstrap"
	"github.com/kbukum/callanalyzer/logger"
	"github.com/kbukum/callanalyzer/observability"
	"github.com/kbukum/callanalyzer/provider"
	"github.com/kbukum/callanalyzer/server"
	"github.com/kbukum/callanalyzer/server/middleware"
	"github.com/kbukum/callanalyzer/transcription"
	"github.com/kbukum/callanalyzer/transcription/mistral"
	"github.com/kbukum/callanalyzer/transcription/whisper"
)

const apiPrefix = "/api/v1"

type (
	transcribeMiddleware = provider.Middleware[transcription.Request, *transcription.Response]
	app                  = bootstrap.App[*AppConfig]
)

// core holds the components shared by serve and analyze.
type core struct {
	telemetry     *observability.Telemetry
	transcription *transcription.Component
}

// newCore registers telemetry and the transcription backends on a, in
// that order, so providers are closed before exporters flush.
func newCore(a *app) (*core, error) {
	cfg := a.Cfg
	tel, err := observability.NewTelemetry(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return nil, err
	}
	tc := transcription.NewComponent(transcription.NewManager(cfg.Transcription.Provider), cfg.Transcription.Provider,
		transcription.Backend{Name: mistral.ProviderName, Factory: mistral.Factory(), Config: cfg.Mistral},
		transcription.Backend{Name: whisper.ProviderName, Factory: whisper.Factory(), Config: cfg.Whisper},
	)
	if err := a.RegisterComponent(tel); err != nil {
		return nil, err
	}
	if err := a.RegisterComponent(tc); err != nil {
		return nil, err
	}
	return &core{telemetry: tel, transcription: tc}, nil
}

// providerMiddleware is the instrumentation applied to every provider call.
func (c *core) providerMiddleware(log *logger.Logger) []transcribeMiddleware {
	m := c.telemetry.Metrics()
	return []transcribeMiddleware{
		provider.WithTracing[transcription.Request, *transcription.Response]("transcription"),
		provider.WithLogging[transcription.Request, *transcription.Response](log),
		provider.WithMetrics[transcription.Request, *transcription.Response](m),
	}
}

// newServer builds the long-running service: telemetry, providers, and the
// HTTP server with the analysis routes under /api/v1.
func newServer(cfg *AppConfig) (*app, error) {
	a, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, err
	}
	c, err := newCore(a)
	if err != nil {
		return nil, err
	}

	srv := server.New(cfg.Server, logger.Get("http"))
	if err := a.RegisterComponent(server.NewComponent(srv)); err != nil {
		return nil, err
	}

	metrics := c.telemetry.Metrics()
	manager := c.transcription.Manager()

	engine := srv.GinEngine()
	engine.Use(middleware.Tracing(), middleware.Metrics(metrics))

	srv.ApplyDefaults(cfg.Name, a.Components.HealthAll, func(context.Context) ([]string, string) {
		return manager.Available(), manager.Default()
	})

	handler := api.NewHandler(manager,
		api.WithMetrics(metrics),
		api.WithProviderMiddleware(c.providerMiddleware(logger.Get("transcription"))...),
	)
	handler.Register(engine.Group(apiPrefix), middleware.RateLimit(cfg.Server.RateLimit))

	a.OnReady(func(context.Context) error {
		for _, r := range engine.Routes() {
			a.Summary.TrackRoute(r.Method, r.Path)
		}
		a.Summary.TrackProviders(manager.Available(), manager.Default())
		return nil
	})
	return a, nil
}
