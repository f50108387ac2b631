package bootstrap

import (
	"context"
	"sort"
	"time"

	"github.com/kbukum/callanalyzer/component"
	"github.com/kbukum/callanalyzer/logger"
)

// ComponentInfo is one component line of the startup summary.
type ComponentInfo struct {
	Name    string
	Type    string
	Details string
	Status  component.HealthStatus
	Message string
}

// RouteInfo is a registered HTTP route.
type RouteInfo struct {
	Method string
	Path   string
}

// Summary collects what the application started with and logs it once
// startup completes.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	components      []ComponentInfo
	routes          []RouteInfo
	providers       []string
	defaultProvider string
}

// NewSummary creates a startup summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Collect snapshots description and health of every registered component.
func (s *Summary) Collect(ctx context.Context, registry *component.Registry) {
	if registry == nil {
		return
	}
	s.components = s.components[:0]
	health := registry.HealthAll(ctx)
	for i, c := range registry.All() {
		info := ComponentInfo{Name: c.Name()}
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			info.Type = desc.Type
			info.Details = desc.Details
			if desc.Name != "" {
				info.Name = desc.Name
			}
		}
		if i < len(health) {
			info.Status = health[i].Status
			info.Message = health[i].Message
		}
		s.components = append(s.components, info)
	}
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path})
}

// TrackProviders records the transcription backends and the default one.
func (s *Summary) TrackProviders(names []string, defaultName string) {
	s.providers = append([]string(nil), names...)
	s.defaultProvider = defaultName
}

// Components returns the collected component lines.
func (s *Summary) Components() []ComponentInfo { return s.components }

// Routes returns the tracked routes sorted by path then method.
func (s *Summary) Routes() []RouteInfo {
	out := append([]RouteInfo(nil), s.routes...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Log writes the summary as structured log lines.
func (s *Summary) Log(log *logger.Logger) {
	log.Info("Startup summary", logger.Fields(
		"service", s.serviceName,
		"version", s.version,
		"startup_ms", s.startupDuration.Milliseconds(),
		"components", len(s.components),
		"routes", len(s.routes),
	))
	for _, c := range s.components {
		fields := logger.Fields("name", c.Name, "status", string(c.Status))
		if c.Type != "" {
			fields["type"] = c.Type
		}
		if c.Details != "" {
			fields["details"] = c.Details
		}
		if c.Message != "" {
			fields["message"] = c.Message
		}
		if c.Status == component.StatusHealthy {
			log.Info("Component", fields)
		} else {
			log.Warn("Component", fields)
		}
	}
	if len(s.providers) > 0 {
		log.Info("Transcription providers", logger.Fields("available", s.providers, "default", s.defaultProvider))
	}
	for _, r := range s.Routes() {
		log.Debug("Route", logger.Fields("method", r.Method, "path", r.Path))
	}
}
