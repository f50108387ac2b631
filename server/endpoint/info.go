package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/callanalyzer/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// ProviderLister reports the registered transcription backends and the
// default one.
type ProviderLister func(ctx context.Context) (names []string, defaultName string)

// Info returns a handler that reports service version, uptime and, when
// providers is set, the transcription backends this instance can call.
func Info(serviceName string, providers ProviderLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		body := gin.H{
			"service":    serviceName,
			"version":    v.Short(),
			"go_version": v.GoVersion,
			"uptime":     time.Since(startTime).Round(time.Second).String(),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		}
		if providers != nil {
			names, def := providers(c.Request.Context())
			if names == nil {
				names = []string{}
			}
			body["transcription"] = gin.H{"providers": names, "default": def}
		}
		c.JSON(http.StatusOK, body)
	}
}

// Version reports the build stamps.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	}
}
