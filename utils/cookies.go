package utils

import (
	"net/http"
	"time"

	"fundiq/config"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the HTTP-only cookie holding the backend-issued JWT.
const SessionCookieName = "jwt_token"

// SessionCookieMaxAge matches the backend's 30-day token lifetime.
const SessionCookieMaxAge = int(30 * 24 * time.Hour / time.Second)

// SetSessionCookie attaches the token to the response. HttpOnly and Strict
// SameSite always; Secure only in production so local development over
// plain HTTP still works.
func SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token, SessionCookieMaxAge, "/", "", config.IsProduction(), true)
}

// ClearSessionCookie expires the cookie immediately. Callers invoke this
// pessimistically: any doubt about the token moves the cookie to absent.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", config.IsProduction(), true)
}

// SessionToken reads the session cookie, returning "" when absent.
func SessionToken(c *gin.Context) string {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}
