package component

import "context"

// HealthStatus is the state a component reports through Health.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the service such as the HTTP
// server, the telemetry exporters or the transcription backends. Name must
// be unique within a Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is the startup log line for a component.
type Description struct {
	Name    string // display name, Name() when empty
	Type    string // server, telemetry, provider
	Details string // e.g. "0.0.0.0:8080"
}

// Describable components log a Description when they start.
type Describable interface {
	Describe() Description
}

// Overall folds component states into one. Any unhealthy component makes
// the result unhealthy and is listed in failing; otherwise any degraded
// component degrades it.
func Overall(hs []Health) (status HealthStatus, failing []string) {
	status = StatusHealthy
	for _, h := range hs {
		switch h.Status {
		case StatusUnhealthy:
			status = StatusUnhealthy
			failing = append(failing, h.Name)
		case StatusDegraded:
			if status == StatusHealthy {
				status = StatusDegraded
			}
		}
	}
	return status, failing
}
