package middleware

import (
	"math"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/callanalyzer/errors"
)

const rateWindow = time.Minute

// RateLimitConfig bounds analysis requests per client. Every analysis is
// one paid provider call.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"` // 0 disables

	// KeyFunc picks the client key, c.ClientIP() when nil.
	KeyFunc func(*gin.Context) string `yaml:"-" mapstructure:"-"`
}

// RateLimit rejects requests over the per-key allowance of the trailing
// minute with 429 RATE_LIMITED and a Retry-After in seconds.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	keyOf := cfg.KeyFunc
	if keyOf == nil {
		keyOf = (*gin.Context).ClientIP
	}

	w := newWindow(cfg.RequestsPerMinute, time.Now)
	return func(c *gin.Context) {
		wait, ok := w.admit(keyOf(c))
		if !ok {
			err := apperrors.RateLimited(cfg.RequestsPerMinute)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
			return
		}
		c.Next()
	}
}

// window is a sliding log of admitted request times per key.
type window struct {
	mu        sync.Mutex
	limit     int
	now       func() time.Time
	hits      map[string][]time.Time
	lastSweep time.Time
}

func newWindow(limit int, now func() time.Time) *window {
	return &window{limit: limit, now: now, hits: make(map[string][]time.Time), lastSweep: now()}
}

// admit records a hit for key if the allowance permits. Otherwise it
// reports how long until the oldest hit leaves the window.
func (w *window) admit(key string) (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	cutoff := now.Add(-rateWindow)
	if now.Sub(w.lastSweep) > rateWindow {
		w.sweep(cutoff)
		w.lastSweep = now
	}

	hits := live(w.hits[key], cutoff)
	if len(hits) >= w.limit {
		w.hits[key] = hits
		return hits[0].Sub(cutoff), false
	}
	w.hits[key] = append(hits, now)
	return 0, true
}

// sweep forgets idle keys. Callers hold mu.
func (w *window) sweep(cutoff time.Time) {
	for key, hits := range w.hits {
		if hits = live(hits, cutoff); len(hits) == 0 {
			delete(w.hits, key)
		} else {
			w.hits[key] = hits
		}
	}
}

// live drops the hits at or before cutoff. hits is in time order.
func live(hits []time.Time, cutoff time.Time) []time.Time {
	i, _ := slices.BinarySearchFunc(hits, cutoff, func(t, c time.Time) int {
		if t.After(c) {
			return 1
		}
		return -1
	})
	return hits[i:]
}
