package observability

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"

	"github.com/kbukum/callanalyzer/component"
	"github.com/kbukum/callanalyzer/logger"
)

var (
	_ component.Component   = (*Telemetry)(nil)
	_ component.Describable = (*Telemetry)(nil)
)

// Telemetry owns the OTLP exporters for the lifetime of the service. The
// instruments exist from construction and record into the global no-op
// providers until Start installs real ones.
type Telemetry struct {
	cfg     Config
	svc     Service
	metrics *Metrics

	mu      sync.Mutex
	exp     *exporters
	started bool
}

func NewTelemetry(cfg Config, name, version, environment string) (*Telemetry, error) {
	cfg.ApplyDefaults()
	metrics, err := NewMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}
	return &Telemetry{
		cfg:     cfg,
		svc:     Service{Name: name, Version: version, Environment: environment},
		metrics: metrics,
	}, nil
}

// Metrics returns the shared instruments.
func (t *Telemetry) Metrics() *Metrics { return t.metrics }

func (t *Telemetry) Name() string { return "telemetry" }

func (t *Telemetry) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cfg.Enabled {
		exp, err := startExporters(ctx, t.cfg, t.svc)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		t.exp = exp
		logger.Get("telemetry").Info("OTLP export enabled", logger.Fields(
			"endpoint", t.cfg.Endpoint,
			"sample_rate", t.cfg.SampleRate,
			"metric_interval", t.cfg.MetricInterval.String(),
		))
	}
	t.started = true
	return nil
}

// Stop flushes pending spans and metrics.
func (t *Telemetry) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.started = false
	if t.exp == nil {
		return nil
	}
	err := t.exp.shutdown(ctx)
	t.exp = nil
	return err
}

func (t *Telemetry) Health(_ context.Context) component.Health {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	switch {
	case !t.started:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case !t.cfg.Enabled:
		h.Message = "export disabled"
	}
	return h
}

func (t *Telemetry) Describe() component.Description {
	details := "export disabled"
	if t.cfg.Enabled {
		details = fmt.Sprintf("otlp http %s sample=%.2f", t.cfg.Endpoint, t.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: details}
}
