package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter hands each client IP its own token bucket, so one flooding
// client cannot starve submissions from every other table.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int

	mu  sync.Mutex
	ips map[string]*ipBucket
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(perSecond int) *RateLimiter {
	rl := &RateLimiter{
		perSecond: rate.Limit(perSecond),
		burst:     perSecond * 2,
		ips:       make(map[string]*ipBucket),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) bucket(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.ips[ip]
	if !ok {
		b = &ipBucket{limiter: rate.NewLimiter(rl.perSecond, rl.burst)}
		rl.ips[ip] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

// cleanup drops buckets for IPs not seen in a while, keeping the map from
// growing with every customer that ever ordered.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-3 * time.Minute)
		for ip, b := range rl.ips {
			if b.lastSeen.Before(cutoff) {
				delete(rl.ips, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.bucket(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please retry shortly",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// NewSubmitRateLimiter guards the customer submission endpoints (orders,
// waiter calls) against rapid-fire repeats, n requests per second per client
// IP with a small burst.
func NewSubmitRateLimiter(perSecond int) gin.HandlerFunc {
	return NewRateLimiter(perSecond).RateLimit()
}
