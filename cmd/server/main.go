package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"printease-system/config"
	"printease-system/internal/database"
	"printease-system/internal/files"
	"printease-system/internal/payments"
	"printease-system/internal/wizard"
)

const (
	wizardSessionTTL    = 2 * time.Hour
	wizardSweepInterval = 10 * time.Minute
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)

	gateway := payments.NewHTTPGateway(cfg.Payment.BaseURL, cfg.Payment.KeyID, cfg.Payment.KeySecret)
	inspector := files.NewHTTPInspector(cfg.Files.InspectorURL)

	store := wizard.NewStore(wizardSessionTTL)
	store.StartSweeper(context.Background(), wizardSweepInterval)

	router := gin.Default()
	registerRoutes(router, db, redisClient, store, gateway, inspector)

	log.Printf("Server listening on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
