package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a UUID, reusing a valid incoming one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger writes one zerolog line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		} else if c.Writer.Status() >= http.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int("bytes", c.Writer.Size()).
			Dur("took", time.Since(start)).
			Msg("http request")
	}
}

// BodyLimit caps request bodies at max bytes. Reads past the cap fail with
// *http.MaxBytesError, which handlers report as 413.
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter hands out one token bucket per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      float64
	burst    int
	idle     time.Duration
	swept    time.Time
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: make(map[string]*limiterEntry),
		rps:      rps,
		burst:    burst,
		idle:     time.Hour,
	}
}

func (l *rateLimiter) get(identity string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.limiters[identity]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.limiters[identity] = entry
	}
	entry.lastSeen = now
	// Evict idle buckets every few minutes on the request path.
	if now.Sub(l.swept) > 5*time.Minute {
		for id, e := range l.limiters {
			if now.Sub(e.lastSeen) > l.idle {
				delete(l.limiters, id)
			}
		}
		l.swept = now
	}
	return entry.limiter
}

// RateLimit returns per-IP token-bucket rate limiting middleware. A
// non-positive rps disables limiting.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := newRateLimiter(rps, burst)
	return func(c *gin.Context) {
		if !l.get(c.ClientIP(), time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Success: false,
				Error: &ErrorDetail{
					Code:    ErrCodeRateLimited,
					Message: "rate limit exceeded, please slow down",
				},
			})
			return
		}
		c.Next()
	}
}
