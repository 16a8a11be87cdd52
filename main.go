// main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/beratech/payhero-backend/config"
	"github.com/beratech/payhero-backend/handlers"
	"github.com/beratech/payhero-backend/routes"
	"github.com/beratech/payhero-backend/services"
	"github.com/beratech/payhero-backend/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	setupLogger(cfg)

	// Open the transaction store (Postgres when DATABASE_URL is set,
	// local file otherwise)
	txStore, err := store.New(cfg)
	if err != nil {
		log.Fatal("Failed to open transaction store: ", err)
	}
	defer txStore.Close()

	// Create the gateway client and handlers
	gateway := services.NewPayHeroClient(cfg)
	h := handlers.NewHandlers(cfg, gateway, txStore)

	// Setup routes
	r := routes.SetupRouter(cfg, h)

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.WithFields(log.Fields{
			"port":        cfg.Port,
			"environment": cfg.Environment,
			"cors":        cfg.CorsAllowedOrigins,
		}).Info("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Attempt graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: ", err)
	}

	log.Info("Server exited")
}

func setupLogger(cfg *config.Config) {
	log.SetFormatter(&log.JSONFormatter{})

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
