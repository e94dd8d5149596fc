package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// clientIP keys the rate limiter. Forwarding headers only count when the
// peer is one of the engine's trusted proxies (TRUSTED_PROXIES); gin does
// that resolution, so a client cannot pick its own bucket by sending
// X-Forwarded-For.
func clientIP(c *gin.Context) string {
	if ip := net.ParseIP(c.ClientIP()); ip != nil {
		return ip.String()
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
