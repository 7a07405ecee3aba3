package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/carcarahealth/glica/internal/config"
	"github.com/carcarahealth/glica/internal/database"
	"github.com/carcarahealth/glica/internal/gemini"
	"github.com/carcarahealth/glica/internal/logger"
	"github.com/carcarahealth/glica/internal/server"
	"github.com/carcarahealth/glica/internal/services"
	"github.com/carcarahealth/glica/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatalf("Failed to init logger: %v", err)
	}
	logger.Info("Configuration loaded")

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info("Database connection established and migrations completed")

	ctx := context.Background()
	reasoning, err := gemini.NewService(ctx, cfg.Reasoning)
	if err != nil {
		logger.Fatalf("Failed to init reasoning service: %v", err)
	}
	defer reasoning.Close()

	var sessions session.Store
	if cfg.Redis.Host != "" {
		sessions, err = session.NewRedisStore(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		logger.Info("Using Redis session store", "host", cfg.Redis.Host)
	} else {
		sessions = session.NewManager()
		logger.Info("Using in-memory session store")
	}
	defer sessions.Close()

	store := database.NewHistoryStore(db)
	historyService := services.NewHistoryService(store)
	reportService := services.NewReportService(reasoning)
	adjustmentService := services.NewAdjustmentService(store, reasoning)
	handoutService := services.NewHandoutService(reasoning)
	logger.Info("Services initialized")

	srv := server.New(reportService, historyService, adjustmentService, handoutService, sessions)
	if err := srv.Run(cfg.HTTP.Port); err != nil {
		logger.Fatalf("Server stopped with error: %v", err)
	}
}
