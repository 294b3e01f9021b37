package middlewares

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/geocoder89/pawhub/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit rejects requests over the limiter's budget for the derived key.
// A limiter backend failure lets the request through and is logged.
func RateLimit(limiter ratelimit.Limiter, keyFn func(*gin.Context) string, log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}

		d, err := limiter.Allow(c.Request.Context(), c.FullPath()+"|"+key)
		if err != nil {
			log.WarnContext(c.Request.Context(), "rate limiter unavailable", "err", err)
			c.Next()
			return
		}

		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests. Please try again shortly.",
				},
			})
			return
		}

		c.Next()
	}
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// For authenticated endpoints: rate limit by identity if available
func KeyByIdentityOrIP(c *gin.Context) string {
	id, ok := IdentityFromContext(c)
	if ok {
		return "user:" + id.Email
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)
	if err == nil && host != "" {
		return host
	}

	return ip
}
