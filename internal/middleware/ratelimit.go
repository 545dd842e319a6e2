package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"artmarket/internal/logger"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter holds rate limiters for different clients.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	done     chan struct{}
}

const limiterSweepInterval = 10 * time.Minute

// NewRateLimiter creates a new RateLimiter. Its sweeper stops when ctx is done.
func NewRateLimiter(ctx context.Context, rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		done:     make(chan struct{}),
	}

	go rl.cleanup(ctx, limiterSweepInterval)

	return rl
}

// Done is closed once the sweeper has exited.
func (rl *RateLimiter) Done() <-chan struct{} {
	return rl.done
}

// getLimiter returns the rate limiter for the given IP
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[ip]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists = rl.limiters[ip]
	if exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[ip] = limiter
	return limiter
}

// cleanup drops limiters that have refilled to full burst, i.e. idle clients.
func (rl *RateLimiter) cleanup(ctx context.Context, interval time.Duration) {
	defer close(rl.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(time.Now())
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, limiter := range rl.limiters {
		if limiter.TokensAt(now) >= float64(rl.burst) {
			delete(rl.limiters, ip)
		}
	}
}

// RateLimitMiddleware creates a rate limiting middleware. name labels the
// limiter in logs and metrics so the general and auth limiters can be told apart.
func RateLimitMiddleware(ctx context.Context, name string, rps float64, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(ctx, rps, burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		l := limiter.getLimiter(ip)

		if !l.Allow() {
			requestID := GetRequestID(c)
			rateLimited.WithLabelValues(name).Inc()
			logger.Warn("Rate limit exceeded",
				zap.String("request_id", requestID),
				zap.String("limiter", name),
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)

			utils.ErrorResponseWithCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
