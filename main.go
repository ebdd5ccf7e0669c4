// File: fundiq/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fundiq/config"
	"fundiq/handlers"
	"fundiq/middleware"
	"fundiq/routes"
	"fundiq/services/relay"
	"fundiq/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	zap.ReplaceGlobals(logger)

	// Optional server-side session validation cache.
	var sessions *utils.SessionCache
	if config.AppConfig.SessionCacheEnabled {
		utils.InitSessionCache()
		sessions = utils.NewSessionCache(utils.GetSessionCacheClient())
		utils.StartHealthMonitor(utils.GetSessionCacheClient())
	} else {
		utils.StartHealthMonitor(nil)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.SessionGate())

	// The outbound relay client everything proxies through.
	relayClient := relay.NewHTTPClient(config.AppConfig.APIBaseURL, logger)

	authHandler := handlers.NewAuthHandler(relayClient, sessions)
	applicationHandler := handlers.NewApplicationHandler(relayClient)
	preferenceHandler := handlers.NewPreferenceHandler(relayClient)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		LoginHandler:    authHandler.LoginHandler,
		LogoutHandler:   authHandler.LogoutHandler,
		SessionsHandler: authHandler.SessionsHandler,
		ValidateHandler: authHandler.ValidateHandler,

		ListApplicationsHandler:  applicationHandler.ListApplicationsHandler,
		CreateApplicationHandler: applicationHandler.CreateApplicationHandler,
		GetApplicationHandler:    applicationHandler.GetApplicationHandler,
		UpdateApplicationHandler: applicationHandler.UpdateApplicationHandler,
		DeleteApplicationHandler: applicationHandler.DeleteApplicationHandler,
		UploadDeckHandler:        applicationHandler.UploadDeckHandler,
		TriggerActionHandler:     applicationHandler.TriggerActionHandler,
		GetDeckHandler:           applicationHandler.GetDeckHandler,

		GetPreferencesHandler:  preferenceHandler.GetPreferencesHandler,
		SavePreferencesHandler: preferenceHandler.SavePreferencesHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting relay on %s (backend: %s)...", srv.Addr, config.AppConfig.APIBaseURL)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
