package middleware

import (
	"net/http"
	"sync"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitorLimiter tracks one token bucket per key and evicts idle entries.
type visitorLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	r        rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newVisitorLimiter(r rate.Limit, burst int) *visitorLimiter {
	vl := &visitorLimiter{
		visitors: make(map[string]*visitor),
		r:        r,
		burst:    burst,
	}
	go vl.cleanup()
	return vl
}

func (vl *visitorLimiter) get(key string) *rate.Limiter {
	vl.mu.Lock()
	defer vl.mu.Unlock()

	v, ok := vl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(vl.r, vl.burst)}
		vl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (vl *visitorLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)

		vl.mu.Lock()
		for key, v := range vl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(vl.visitors, key)
			}
		}
		vl.mu.Unlock()
	}
}

func tooManyRequests(c *gin.Context) {
	response.Error(c, http.StatusTooManyRequests, apperror.CodeServiceUnavailable, "too many requests, slow down", nil)
	c.Abort()
}

// RateLimitByIP limits unauthenticated traffic per client IP.
func RateLimitByIP(rps float64, burst int) gin.HandlerFunc {
	vl := newVisitorLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !vl.get(c.ClientIP()).Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// RateLimitByUser limits authenticated traffic per user id, falling back
// to the client IP when the request carries no identity yet.
func RateLimitByUser(rps float64, burst int) gin.HandlerFunc {
	vl := newVisitorLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		key := c.GetString(KeyUserID)
		if key == "" {
			key = c.ClientIP()
		}
		if !vl.get(key).Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}
