package main

import (
	"os"
	"os/signal"
	"syscall"

	"Recipe-Book/cmd/config"
	migration "Recipe-Book/cmd/database/migrate"
	"Recipe-Book/internal/utils"
	"Recipe-Book/internal/utils/logger"

	"go.uber.org/zap"
)

func main() {
	utils.LoadConfig()

	if err := logger.Init(logger.Config{
		Level:       utils.GetConfigDefault("LOG_LEVEL", "info"),
		Development: utils.GetConfig("ENV") != "production",
	}); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		logger.L().Fatal("failed to connect database", zap.Error(err))
	}

	if err := migration.Migrate(db); err != nil {
		logger.L().Fatal("failed to migrate database", zap.Error(err))
	}

	app, err := config.NewApp(db)
	if err != nil {
		logger.L().Fatal("failed to build app", zap.Error(err))
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.L().Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.L().Error("shutdown failed", zap.Error(err))
		}
	}()

	port := utils.GetConfigDefault("APP_PORT", "8080")
	if err := app.Listen(":" + port); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
