package routes

import (
	"net/http"
	"time"

	"fundiq/handlers"
	"fundiq/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the session lifecycle endpoints. These are
// public: the session gate skips /api/auth/ because these routes manage
// the token themselves.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.LoginHandler)
		api.POST("/logout", hb.LogoutHandler)
		api.GET("/sessions", hb.SessionsHandler)
		api.POST("/validate", hb.ValidateHandler)
	}
}

// RegisterApplicationRoutes registers the pitch-deck submission endpoints.
func RegisterApplicationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	list := r.Group("/api/applications")
	{
		list.GET("", hb.ListApplicationsHandler)
		list.POST("", hb.CreateApplicationHandler)
		list.GET("/:id/deck", hb.GetDeckHandler)
	}

	single := r.Group("/api/application")
	{
		single.GET("/:id", hb.GetApplicationHandler)
		single.PUT("/:id", hb.UpdateApplicationHandler)
		single.DELETE("/:id", hb.DeleteApplicationHandler)
		single.PATCH("/:id", hb.UploadDeckHandler)
		single.POST("/:id", hb.TriggerActionHandler)
	}
}

// RegisterPreferenceRoutes registers the per-firm evaluation preference
// endpoints.
func RegisterPreferenceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/preferences")
	{
		api.GET("/:firm_id", hb.GetPreferencesHandler)
		api.POST("/:firm_id", hb.SavePreferencesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterApplicationRoutes(r, hb)
	RegisterPreferenceRoutes(r, hb)
	RegisterHealthRoute(r)
}
