package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle gathers every route handler so route registration takes
// one argument.
type HandlerBundle struct {
	// Auth endpoints.
	LoginHandler    gin.HandlerFunc
	LogoutHandler   gin.HandlerFunc
	SessionsHandler gin.HandlerFunc
	ValidateHandler gin.HandlerFunc

	// Application endpoints.
	ListApplicationsHandler  gin.HandlerFunc
	CreateApplicationHandler gin.HandlerFunc
	GetApplicationHandler    gin.HandlerFunc
	UpdateApplicationHandler gin.HandlerFunc
	DeleteApplicationHandler gin.HandlerFunc
	UploadDeckHandler        gin.HandlerFunc
	TriggerActionHandler     gin.HandlerFunc
	GetDeckHandler           gin.HandlerFunc

	// Preference endpoints.
	GetPreferencesHandler  gin.HandlerFunc
	SavePreferencesHandler gin.HandlerFunc
}
