package handlers

import (
	"net/http"

	"fundiq/middleware"
	"fundiq/models"
	"fundiq/services/relay"
	"fundiq/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler owns the token cookie lifecycle: set on login success, cleared
// on logout and on any backend doubt about the token.
type AuthHandler struct {
	Relay    relay.Client
	Sessions *utils.SessionCache // nil when the cache is disabled
}

func NewAuthHandler(relayClient relay.Client, sessions *utils.SessionCache) *AuthHandler {
	return &AuthHandler{Relay: relayClient, Sessions: sessions}
}

// loginBackendResponse is what the backend returns on a credential check.
type loginBackendResponse struct {
	JWTToken string       `json:"jwt_token"`
	User     *models.User `json:"user"`
	Message  string       `json:"message"`
}

// LoginHandler exchanges credentials for the session cookie. This is the
// only handler that runs without a token.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username and password are required"})
		return
	}

	addr := middleware.ClientAddr(c)
	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:     http.MethodPost,
		Path:       "/auth/login",
		ClientAddr: addr,
		JSONBody: gin.H{
			"username":       req.Username,
			"password":       req.Password,
			"remote_address": addr,
		},
	})
	if err != nil {
		logger.Error("Login backend call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	if !resp.OK() {
		logger.Warn("Login rejected by backend", zap.Int("status", resp.StatusCode))
		c.JSON(resp.StatusCode, gin.H{"success": false, "message": "Authentication failed"})
		return
	}

	if !resp.IsJSON() {
		logger.Error("Login backend returned non-JSON response", zap.String("contentType", resp.ContentType))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid response from server"})
		return
	}

	var data loginBackendResponse
	if err := resp.Decode(&data); err != nil {
		logger.Error("Login backend returned malformed JSON", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid response from server"})
		return
	}

	if data.JWTToken == "" || data.User == nil {
		message := data.Message
		if message == "" {
			message = "Login failed"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
		return
	}

	logger.Info("Login successful",
		zap.String("username", data.User.Username),
		zap.String("token", utils.TokenPreview(data.JWTToken)))
	utils.SetSessionCookie(c, data.JWTToken)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": data.User, "message": "Login successful"})
}

// LogoutHandler tells the backend and clears the cookie. The clear happens
// on every path: logout must be effective client-side even when the backend
// is unreachable or answers with garbage.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	logger := getLogger(c)

	token := utils.SessionToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "No active session found"})
		return
	}

	utils.ClearSessionCookie(c)
	h.evictCached(c, token)

	addr := middleware.ClientAddr(c)
	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:     http.MethodPost,
		Path:       "/auth/logout",
		Token:      token,
		ClientAddr: addr,
		JSONBody: gin.H{
			"remote_address": addr,
			"jwt_token":      token,
		},
	})
	if err != nil {
		logger.Warn("Logout backend call failed, clearing session anyway", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
		return
	}

	if !resp.OK() {
		logger.Warn("Logout rejected by backend, clearing session anyway", zap.Int("status", resp.StatusCode))
	}

	message := "Logged out successfully"
	success := true
	if resp.OK() && resp.IsJSON() {
		var data struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if err := resp.Decode(&data); err == nil {
			success = data.Success
			if data.Message != "" {
				message = data.Message
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": success, "message": message})
}

// SessionsHandler resolves the cookie into a session for the dashboard's
// restore-on-load path. Every doubt collapses to a null session plus a
// cleared cookie; a stale cookie must not survive being contradicted.
func (h *AuthHandler) SessionsHandler(c *gin.Context) {
	logger := getLogger(c)

	token := utils.SessionToken(c)
	if token == "" {
		c.JSON(http.StatusOK, models.SessionResponse{Success: true, Session: nil})
		return
	}

	if h.Sessions != nil {
		if cached, err := h.Sessions.Get(c.Request.Context(), token); err == nil && cached != nil {
			c.JSON(http.StatusOK, models.SessionResponse{
				Success: true,
				Session: &models.Session{
					JWTToken: token,
					User:     models.User{ID: cached.UserID, Username: cached.Username},
				},
			})
			return
		}
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:     http.MethodPost,
		Path:       "/auth/validate",
		Token:      token,
		ClientAddr: middleware.ClientAddr(c),
		JSONBody:   gin.H{"token": token},
	})
	if err != nil || !resp.OK() || !resp.IsJSON() {
		if err != nil {
			logger.Warn("Session validation unreachable, dropping session", zap.Error(err))
		} else {
			logger.Warn("Session validation failed, dropping session",
				zap.Int("status", resp.StatusCode),
				zap.String("contentType", resp.ContentType))
		}
		h.dropSession(c, token)
		c.JSON(http.StatusOK, models.SessionResponse{Success: true, Session: nil})
		return
	}

	var data models.ValidationResponse
	if err := resp.Decode(&data); err != nil || !data.Valid || data.UserData == nil {
		h.dropSession(c, token)
		c.JSON(http.StatusOK, models.SessionResponse{Success: true, Session: nil})
		return
	}

	user := models.User{ID: data.UserData.UserID, Username: data.UserData.Username}
	if h.Sessions != nil {
		if err := h.Sessions.Save(c.Request.Context(), token, utils.CachedSession{
			UserID:   user.ID,
			Username: user.Username,
		}); err != nil {
			logger.Warn("Failed to cache validated session", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		Success: true,
		Session: &models.Session{JWTToken: token, User: user},
	})
}

// ValidateHandler is the explicit token check. Unlike the sessions route it
// propagates a 401 for an invalid token so callers can distinguish "bad
// token" from "backend trouble".
func (h *AuthHandler) ValidateHandler(c *gin.Context) {
	logger := getLogger(c)

	token := utils.SessionToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "No token found"})
		return
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:     http.MethodPost,
		Path:       "/auth/validate",
		Token:      token,
		ClientAddr: middleware.ClientAddr(c),
		JSONBody:   gin.H{"token": token},
	})
	if err != nil {
		logger.Error("Token validation call failed", zap.Error(err))
		h.dropSession(c, token)
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": "Token validation failed"})
		return
	}

	if !resp.OK() {
		logger.Warn("Validate rejected by backend", zap.Int("status", resp.StatusCode))
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Backend error"})
		return
	}

	if !resp.IsJSON() {
		logger.Error("Validate backend returned non-JSON response", zap.String("contentType", resp.ContentType))
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Invalid response format"})
		return
	}

	var data models.ValidationResponse
	if err := resp.Decode(&data); err != nil || !data.Valid || data.UserData == nil {
		h.dropSession(c, token)
		errMsg := "Invalid token"
		if err == nil && data.Error != "" {
			errMsg = data.Error
		}
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": errMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user_data": models.UserData{
			UserID:   data.UserData.UserID,
			Username: data.UserData.Username,
		},
	})
}

// dropSession clears both trust tiers for a token.
func (h *AuthHandler) dropSession(c *gin.Context, token string) {
	utils.ClearSessionCookie(c)
	h.evictCached(c, token)
}

func (h *AuthHandler) evictCached(c *gin.Context, token string) {
	if h.Sessions == nil {
		return
	}
	if err := h.Sessions.Delete(c.Request.Context(), token); err != nil {
		getLogger(c).Warn("Failed to evict cached session", zap.Error(err))
	}
}
