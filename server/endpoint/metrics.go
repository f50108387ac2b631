package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const mib = 1 << 20

type runtimeStats struct {
	Timestamp  string `json:"timestamp"`
	UptimeS    int64  `json:"uptime_s"`
	Goroutines int    `json:"goroutines"`
	Memory     struct {
		AllocMB      uint64 `json:"alloc_mb"`
		TotalAllocMB uint64 `json:"total_alloc_mb"`
		SysMB        uint64 `json:"sys_mb"`
		HeapObjects  uint64 `json:"heap_objects"`
		GCRuns       uint32 `json:"gc_runs"`
	} `json:"memory"`
}

// Metrics serves a runtime snapshot. Request and provider metrics are
// exported over OTLP instead.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		s := runtimeStats{
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			UptimeS:    int64(time.Since(startTime).Seconds()),
			Goroutines: runtime.NumGoroutine(),
		}
		s.Memory.AllocMB = ms.Alloc / mib
		s.Memory.TotalAllocMB = ms.TotalAlloc / mib
		s.Memory.SysMB = ms.Sys / mib
		s.Memory.HeapObjects = ms.HeapObjects
		s.Memory.GCRuns = ms.NumGC
		c.JSON(http.StatusOK, s)
	}
}
