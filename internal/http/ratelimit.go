package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// loginRateLimiter throttles login attempts per client IP using a
// redis-backed sliding window. A nil client disables limiting; redis
// errors fail open so an unavailable redis never blocks logins.
func loginRateLimiter(rdb *redis.Client, perMinute int) gin.HandlerFunc {
	if rdb == nil || perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := redis_rate.NewLimiter(rdb)
	limit := redis_rate.PerMinute(perMinute)

	return func(c *gin.Context) {
		key := "ratelimit:login:" + clientIP(c.Request)
		res, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			log.WithError(err).Warn("login rate limiter unavailable, failing open")
			c.Next()
			return
		}
		if res.Allowed == 0 {
			retryAfter := int(res.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     "too many login attempts, try again later",
				"status_code": http.StatusTooManyRequests,
			})
			return
		}
		c.Next()
	}
}

// clientIP resolves the originating client address, honoring proxy
// headers the way the front servers set them.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[len(parts)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
