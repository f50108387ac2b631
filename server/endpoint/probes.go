package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/callanalyzer/component"
)

// HealthChecker returns the health of every registered component.
type HealthChecker func(ctx context.Context) []component.Health

type probeResponse struct {
	Status     string             `json:"status"`
	Service    string             `json:"service"`
	Timestamp  string             `json:"timestamp"`
	Components []component.Health `json:"components,omitempty"`
	Failing    []string           `json:"failing,omitempty"`
}

func newProbe(serviceName, status string) probeResponse {
	return probeResponse{
		Status:    status,
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func check(ctx context.Context, checker HealthChecker) []component.Health {
	if checker == nil {
		return nil
	}
	return checker(ctx)
}

// Health reports the aggregate status with every component's detail.
// Unhealthy answers 503. A degraded transcription backend still serves
// callers that bring their own key, so degraded answers 200.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		components := check(c.Request.Context(), checker)
		status, _ := component.Overall(components)

		body := newProbe(serviceName, string(status))
		body.Components = components
		c.JSON(statusCode(status == component.StatusUnhealthy), body)
	}
}

// Readiness reports "not_ready" with the failing component names while any
// component is unhealthy.
func Readiness(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, failing := component.Overall(check(c.Request.Context(), checker))
		body := newProbe(serviceName, "ready")
		if len(failing) > 0 {
			body.Status = "not_ready"
			body.Failing = failing
		}
		c.JSON(statusCode(len(failing) > 0), body)
	}
}

// Liveness only confirms the process serves HTTP.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, newProbe(serviceName, "alive"))
	}
}

func statusCode(unavailable bool) int {
	if unavailable {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
