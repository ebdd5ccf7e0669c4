package handlers

import (
	"net/http"
	"net/url"

	"fundiq/middleware"
	"fundiq/models"
	"fundiq/services/relay"
	"fundiq/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Actions the backend can run against a single application.
var validActions = map[string]bool{
	"extract":  true,
	"enhance":  true,
	"evaluate": true,
}

// ApplicationHandler proxies the application resource group. It never
// interprets application data beyond computing list metrics; payloads pass
// through untouched.
type ApplicationHandler struct {
	Relay relay.Client
}

func NewApplicationHandler(relayClient relay.Client) *ApplicationHandler {
	return &ApplicationHandler{Relay: relayClient}
}

// requireToken reads the cookie, answering 401 when absent. The gate has
// already enforced this; handlers re-check so they stay safe standalone.
func requireToken(c *gin.Context) (string, bool) {
	token := utils.SessionToken(c)
	if token == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", c.Request.URL.Path)
		return "", false
	}
	return token, true
}

// ListApplicationsHandler fetches the submission list and adds the status
// metrics the dashboard header shows.
func (h *ApplicationHandler) ListApplicationsHandler(c *gin.Context) {
	logger := getLogger(c)

	token, ok := requireToken(c)
	if !ok {
		return
	}

	query := url.Values{}
	if status := c.Query("status"); status != "" && status != "all" {
		query.Set("status", status)
	}
	if search := c.Query("search"); search != "" {
		query.Set("search", search)
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:     http.MethodGet,
		Path:       "/applications",
		Query:      query,
		Token:      token,
		ClientAddr: middleware.ClientAddr(c),
	})
	if err != nil {
		logger.Error("Applications list call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	if !resp.OK() {
		logger.Warn("Applications list rejected by backend", zap.Int("status", resp.StatusCode))
		c.JSON(resp.StatusCode, gin.H{"error": "Failed to fetch applications"})
		return
	}

	var apps []models.Application
	if err := resp.Decode(&apps); err != nil {
		logger.Error("Applications list returned malformed body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, models.ApplicationsListResponse{
		Applications: apps,
		Status:       models.ComputeStatusMetrics(apps),
	})
}

// CreateApplicationHandler forwards a new submission. The body is
// multipart (pitch deck upload) and passes through byte-for-byte.
func (h *ApplicationHandler) CreateApplicationHandler(c *gin.Context) {
	logger := getLogger(c)

	token, ok := requireToken(c)
	if !ok {
		return
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:      http.MethodPost,
		Path:        "/applications",
		Token:       token,
		ClientAddr:  middleware.ClientAddr(c),
		RawBody:     c.Request.Body,
		ContentType: c.GetHeader("Content-Type"),
	})
	if err != nil {
		logger.Error("Application create call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	if !resp.OK() || !resp.IsJSON() {
		logger.Warn("Application create rejected by backend",
			zap.Int("status", resp.StatusCode),
			zap.String("contentType", resp.ContentType))
		status := resp.StatusCode
		if resp.OK() {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": "Failed to create application"})
		return
	}

	c.Data(http.StatusOK, "application/json", resp.Body)
}

// GetApplicationHandler fetches a single submission with its extracted,
// enriched, and scored payloads.
func (h *ApplicationHandler) GetApplicationHandler(c *gin.Context) {
	logger := getLogger(c)

	token, ok := requireToken(c)
	if !ok {
		return
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:     http.MethodGet,
		Path:       "/applications/" + c.Param("id"),
		Token:      token,
		ClientAddr: middleware.ClientAddr(c),
	})
	if err != nil {
		logger.Error("Application fetch call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch application"})
		return
	}

	if resp.StatusCode == http.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if !resp.OK() || !resp.IsJSON() {
		logger.Warn("Application fetch rejected by backend",
			zap.Int("status", resp.StatusCode),
			zap.String("contentType", resp.ContentType))
		status := resp.StatusCode
		if resp.OK() {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": "Failed to fetch application"})
		return
	}

	c.Data(http.StatusOK, "application/json", resp.Body)
}

// UpdateApplicationHandler forwards edited profile data (JSON body).
func (h *ApplicationHandler) UpdateApplicationHandler(c *gin.Context) {
	logger := getLogger(c)

	token, ok := requireToken(c)
	if !ok {
		return
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:      http.MethodPut,
		Path:        "/applications/" + c.Param("id"),
		Token:       token,
		ClientAddr:  middleware.ClientAddr(c),
		RawBody:     c.Request.Body,
		ContentType: "application/json",
	})
	if err != nil {
		logger.Error("Application update call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}

	if !resp.OK() || !resp.IsJSON() {
		logger.Warn("Application update rejected by backend",
			zap.Int("status", resp.StatusCode),
			zap.String("contentType", resp.ContentType))
		status := resp.StatusCode
		if resp.OK() {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": "Failed to update application"})
		return
	}

	c.Data(http.StatusOK, "application/json", resp.Body)
}

// UploadDeckHandler replaces the pitch deck. Multipart passthrough like
// CreateApplicationHandler.
func (h *ApplicationHandler) UploadDeckHandler(c *gin.Context) {
	logger := getLogger(c)

	token, ok := requireToken(c)
	if !ok {
		return
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:      http.MethodPatch,
		Path:        "/applications/" + c.Param("id"),
		Token:       token,
		ClientAddr:  middleware.ClientAddr(c),
		RawBody:     c.Request.Body,
		ContentType: c.GetHeader("Content-Type"),
	})
	if err != nil {
		logger.Error("Deck upload call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}

	if !resp.OK() || !resp.IsJSON() {
		logger.Warn("Deck upload rejected by backend",
			zap.Int("status", resp.StatusCode),
			zap.String("contentType", resp.ContentType))
		status := resp.StatusCode
		if resp.OK() {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": "Failed to update application"})
		return
	}

	c.Data(http.StatusOK, "application/json", resp.Body)
}

// DeleteApplicationHandler removes a submission.
func (h *ApplicationHandler) DeleteApplicationHandler(c *gin.Context) {
	logger := getLogger(c)

	token, ok := requireToken(c)
	if !ok {
		return
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:     http.MethodDelete,
		Path:       "/applications/" + c.Param("id"),
		Token:      token,
		ClientAddr: middleware.ClientAddr(c),
	})
	if err != nil {
		logger.Error("Application delete call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete application"})
		return
	}

	if resp.StatusCode == http.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if !resp.OK() || !resp.IsJSON() {
		logger.Warn("Application delete rejected by backend",
			zap.Int("status", resp.StatusCode),
			zap.String("contentType", resp.ContentType))
		status := resp.StatusCode
		if resp.OK() {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": "Failed to delete application"})
		return
	}

	c.Data(http.StatusOK, "application/json", resp.Body)
}

// TriggerActionHandler starts an extraction, enhancement, or evaluation job
// for an application. The query string is forwarded so the backend sees
// action and preferences_id exactly as the dashboard sent them.
func (h *ApplicationHandler) TriggerActionHandler(c *gin.Context) {
	logger := getLogger(c)

	token, ok := requireToken(c)
	if !ok {
		return
	}

	action := c.Query("action")
	if !validActions[action] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	// The whole query string is forwarded as sent, not just the known keys.
	query := c.Request.URL.Query()

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:     http.MethodPost,
		Path:       "/applications/" + c.Param("id"),
		Query:      query,
		Token:      token,
		ClientAddr: middleware.ClientAddr(c),
	})
	if err != nil {
		logger.Error("Action trigger call failed", zap.String("action", action), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger " + action})
		return
	}

	if !resp.OK() || !resp.IsJSON() {
		logger.Warn("Action trigger rejected by backend",
			zap.String("action", action),
			zap.Int("status", resp.StatusCode),
			zap.String("contentType", resp.ContentType))
		status := resp.StatusCode
		if resp.OK() {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": "Failed to trigger " + action})
		return
	}

	c.Data(http.StatusOK, "application/json", resp.Body)
}

// GetDeckHandler resolves a short-lived signed URL for viewing the deck.
// A backend 404 stays a 404 here: a missing deck is a real not-found,
// unlike missing preferences.
func (h *ApplicationHandler) GetDeckHandler(c *gin.Context) {
	logger := getLogger(c)

	token, ok := requireToken(c)
	if !ok {
		return
	}

	query := url.Values{}
	if attachmentID := c.Query("attachment_id"); attachmentID != "" {
		query.Set("attachment_id", attachmentID)
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:     http.MethodGet,
		Path:       "/applications/" + c.Param("id") + "/deck",
		Query:      query,
		Token:      token,
		ClientAddr: middleware.ClientAddr(c),
	})
	if err != nil {
		logger.Error("Deck URL call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get deck view URL"})
		return
	}

	if resp.StatusCode == http.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
		return
	}
	if !resp.OK() || !resp.IsJSON() {
		logger.Warn("Deck URL rejected by backend",
			zap.Int("status", resp.StatusCode),
			zap.String("contentType", resp.ContentType))
		status := resp.StatusCode
		if resp.OK() {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": "Failed to get deck view URL"})
		return
	}

	c.Data(http.StatusOK, "application/json", resp.Body)
}
