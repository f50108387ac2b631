package transcription

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/callanalyzer/component"
	"github.com/kbukum/callanalyzer/logger"
	"github.com/kbukum/callanalyzer/provider"
)

// Backend pairs a provider factory with its configuration section.
type Backend struct {
	Name    string
	Factory provider.Factory[Provider]
	// Config is the provider's typed config struct; it is flattened with
	// provider.ConfigMap before reaching the factory.
	Config any
}

// Component initializes the configured backends on Start and closes them on
// Stop. The manager is usable for route registration before Start.
type Component struct {
	manager     *provider.Manager[Provider]
	backends    []Backend
	defaultName string
	log         *logger.Logger
}

// NewComponent creates the lifecycle wrapper. defaultName may be empty, in
// which case the manager's selector picks a provider per call.
func NewComponent(m *provider.Manager[Provider], defaultName string, backends ...Backend) *Component {
	for _, b := range backends {
		m.Register(b.Name, b.Factory)
	}
	return &Component{
		manager:     m,
		backends:    backends,
		defaultName: defaultName,
		log:         logger.Get("transcription"),
	}
}

// Manager returns the wrapped provider manager.
func (c *Component) Manager() *provider.Manager[Provider] { return c.manager }

// Name returns the component name used for registration.
func (c *Component) Name() string { return "transcription" }

// Start creates every backend and selects the default.
func (c *Component) Start(ctx context.Context) error {
	for _, b := range c.backends {
		cfg, err := provider.ConfigMap(b.Config)
		if err != nil {
			return fmt.Errorf("%s config: %w", b.Name, err)
		}
		if err := c.manager.Initialize(ctx, b.Name, cfg); err != nil {
			return err
		}
	}
	if c.defaultName != "" {
		if err := c.manager.SetDefault(c.defaultName); err != nil {
			return err
		}
	}
	return nil
}

// Stop releases provider resources.
func (c *Component) Stop(ctx context.Context) error {
	return c.manager.Close(ctx)
}

// Health is degraded when the default provider has no configured
// credential; requests can still carry their own key.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if len(c.manager.Available()) == 0 {
		h.Status = component.StatusUnhealthy
		h.Message = "no providers initialized"
		return h
	}
	p, err := c.manager.Get(ctx)
	if err != nil {
		h.Status = component.StatusDegraded
		h.Message = err.Error()
		return h
	}
	if !p.IsAvailable(ctx) {
		h.Status = component.StatusDegraded
		h.Message = p.Name() + ": no default API key"
	}
	return h
}

// Describe summarizes the providers for the startup log.
func (c *Component) Describe() component.Description {
	names := make([]string, 0, len(c.backends))
	for _, b := range c.backends {
		names = append(names, b.Name)
	}
	return component.Description{
		Name:    "Transcription",
		Type:    "provider",
		Details: fmt.Sprintf("default=%s providers=%s", c.manager.Default(), strings.Join(names, ",")),
	}
}
