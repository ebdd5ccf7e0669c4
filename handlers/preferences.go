package handlers

import (
	"net/http"

	"fundiq/middleware"
	"fundiq/services/relay"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PreferenceHandler proxies per-firm evaluation preferences. It tolerates
// both historical payload shapes by passing bodies through untouched;
// normalization is the client SDK's job.
type PreferenceHandler struct {
	Relay relay.Client
}

func NewPreferenceHandler(relayClient relay.Client) *PreferenceHandler {
	return &PreferenceHandler{Relay: relayClient}
}

// GetPreferencesHandler fetches a firm's preferences. A backend 404 means
// "no preferences yet", which is a valid state, so it becomes an empty
// 200 rather than an error.
func (h *PreferenceHandler) GetPreferencesHandler(c *gin.Context) {
	logger := getLogger(c)

	token, ok := requireToken(c)
	if !ok {
		return
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:     http.MethodGet,
		Path:       "/vc-firms/" + c.Param("firm_id") + "/preferences",
		Token:      token,
		ClientAddr: middleware.ClientAddr(c),
	})
	if err != nil {
		logger.Error("Preferences fetch call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch preferences"})
		return
	}

	if resp.StatusCode == http.StatusNotFound {
		c.JSON(http.StatusOK, []interface{}{})
		return
	}
	if !resp.OK() || !resp.IsJSON() {
		logger.Warn("Preferences fetch rejected by backend",
			zap.Int("status", resp.StatusCode),
			zap.String("contentType", resp.ContentType))
		status := resp.StatusCode
		if resp.OK() {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": "Failed to fetch preferences"})
		return
	}

	c.Data(http.StatusOK, "application/json", resp.Body)
}

// SavePreferencesHandler creates or updates a firm's preferences. On a
// backend JSON error the backend's own error field is relayed; raw bodies
// never are.
func (h *PreferenceHandler) SavePreferencesHandler(c *gin.Context) {
	logger := getLogger(c)

	token, ok := requireToken(c)
	if !ok {
		return
	}

	resp, err := h.Relay.Forward(c.Request.Context(), relay.Request{
		Method:      http.MethodPost,
		Path:        "/vc-firms/" + c.Param("firm_id") + "/preferences",
		Token:       token,
		ClientAddr:  middleware.ClientAddr(c),
		RawBody:     c.Request.Body,
		ContentType: "application/json",
	})
	if err != nil {
		logger.Error("Preferences save call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create preference"})
		return
	}

	if !resp.OK() {
		message := "Failed to create preference"
		if resp.IsJSON() {
			var data struct {
				Error string `json:"error"`
			}
			if err := resp.Decode(&data); err == nil && data.Error != "" {
				message = data.Error
			}
		}
		logger.Warn("Preferences save rejected by backend", zap.Int("status", resp.StatusCode))
		c.JSON(resp.StatusCode, gin.H{"error": message})
		return
	}

	if !resp.IsJSON() {
		logger.Error("Preferences save returned non-JSON response", zap.String("contentType", resp.ContentType))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create preference"})
		return
	}

	c.Data(http.StatusCreated, "application/json", resp.Body)
}
