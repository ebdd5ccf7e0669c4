package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientAddr computes the originating client address forwarded to the
// backend. The relay sits behind the dashboard's edge, so it trusts the
// proxy headers and reports "unknown" rather than its own peer address
// when neither is present.
func ClientAddr(c *gin.Context) string {
	// Check X-Forwarded-For header, which can contain multiple IPs.
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		// The header may contain a comma-separated list of IPs. Use the first one.
		ips := strings.Split(xff, ",")
		if len(ips) > 0 && strings.TrimSpace(ips[0]) != "" {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header.
	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return "unknown"
}
