package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"linx/social-api/internal/reqctx"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiterConfig struct {
	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
	TTL               time.Duration
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	config   RateLimiterConfig
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}

	if config.TTL == 0 {
		config.TTL = 3 * time.Minute
	}

	if config.Burst == 0 {
		config.Burst = config.RequestsPerSecond
	}

	return &RateLimiter{
		visitors: make(map[string]*visitor),
		config:   config,
	}
}

func (r *RateLimiter) get(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(r.config.RequestsPerSecond), r.config.Burst)
		r.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup forgets clients that have been quiet for longer than the TTL.
// Runs until ctx is done.
func (r *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(r.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			for ip, v := range r.visitors {
				if time.Since(v.lastSeen) > r.config.TTL {
					delete(r.visitors, ip)
				}
			}
			r.mu.Unlock()
		}
	}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many requests",
				"requestID": c.GetString(reqctx.RequestIDKey),
			})
			return
		}

		c.Next()
	}
}
