package main

import (
	"context"
	"os"

	"godesign/adapters/postgres"
	"godesign/app"
	"godesign/internal"
	"godesign/internal/config"
	"godesign/ui"
)

func main() {
	logger := internal.DefaultLogger

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load configuration: %v", err)
		os.Exit(1)
	}

	service, err := app.NewExplorationService(cfg, logger)
	if err != nil {
		logger.Error("initialize service: %v", err)
		os.Exit(1)
	}

	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			logger.Error("connect database: %v", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			logger.Error("ensure schema: %v", err)
			os.Exit(1)
		}
		service.WithRepositories(postgres.NewSolutionRepository(db), postgres.NewTraceRepository(db))
		logger.Info("persistence enabled")
	}

	server := ui.NewServer(service, cfg.Server.GinMode, logger)
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
