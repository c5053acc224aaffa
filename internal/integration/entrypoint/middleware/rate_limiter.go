// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boi-gordo/backend/config"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/integration/entrypoint/dto"
)

const defaultWindowDuration = time.Minute

// window counts the hits of one client on one route.
type window struct {
	hits    int
	closeAt time.Time
}

// RateLimiter limits requests per client IP and route using fixed windows.
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
}

// NewRateLimiterWithConfig creates a limiter allowing limit hits per window.
// A non-positive limit disables limiting.
func NewRateLimiterWithConfig(limit int, duration time.Duration) *RateLimiter {
	if duration <= 0 {
		duration = defaultWindowDuration
	}
	return &RateLimiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
	}
}

// NewReconcileRateLimiter creates the limiter guarding manual reconciliation runs.
func NewReconcileRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return NewRateLimiterWithConfig(cfg.ReconcileRequests, cfg.ReconcileWindow)
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// Rejected requests carry a Retry-After header in seconds.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}

		allowed, retryAfter := rl.allow(clientIP + " " + c.FullPath())
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many reconciliation requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			return
		}

		c.Next()
	}
}

// allow records a hit for key and reports whether it fits the current window.
// When it does not, it also returns how long until the window closes.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	w, ok := rl.windows[key]
	if !ok || !now.Before(w.closeAt) {
		rl.windows[key] = &window{hits: 1, closeAt: now.Add(rl.duration)}
		return true, 0
	}

	if w.hits >= rl.limit {
		return false, w.closeAt.Sub(now)
	}
	w.hits++
	return true, 0
}

// Reset forgets every window.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.windows = make(map[string]*window)
}

// Cleanup drops windows that already closed.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if !now.Before(w.closeAt) {
			delete(rl.windows, key)
		}
	}
}
