package middleware

import (
	"net/http"
	"strings"
	"time"

	"fundiq/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionGate enforces authentication on protected paths before any
// handler runs. Auth routes manage their own token lifecycle and stay
// public; everything else under /api/ requires the session cookie.
//
// When a token is present the gate also injects it as an Authorization
// header. Handlers independently read the cookie as well; the redundancy
// is deliberate defense-in-depth.
func SessionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		token := utils.SessionToken(c)

		// An already-authenticated user has no business on the login page.
		if path == "/login" && token != "" {
			c.Redirect(http.StatusTemporaryRedirect, "/")
			c.Abort()
			return
		}

		if !strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/api/auth/") {
			c.Next()
			return
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		// A token past its exp claim cannot possibly validate; drop the
		// cookie here instead of burning a backend round trip.
		if exp, err := utils.TokenExpiry(token); err == nil && !exp.IsZero() && time.Now().After(exp) {
			zap.L().Debug("Expired session cookie rejected at gate",
				zap.String("path", path),
				zap.String("token", utils.TokenPreview(token)))
			utils.ClearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Request.Header.Set("Authorization", "Bearer "+token)
		c.Next()
	}
}
