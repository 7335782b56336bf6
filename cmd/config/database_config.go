package config

import (
	"fmt"

	"Recipe-Book/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectDB opens postgres by default. DB_DRIVER=sqlite uses the file at DB_PATH for local runs.
func ConnectDB() (*gorm.DB, error) {
	cfg := &gorm.Config{}
	if utils.GetConfig("ENV") == "production" {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	var dialector gorm.Dialector
	switch utils.GetConfigDefault("DB_DRIVER", "postgres") {
	case "sqlite":
		dialector = sqlite.Open(utils.GetConfigDefault("DB_PATH", "recipe_book.db"))
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			utils.GetConfig("DB_HOST"),
			utils.GetConfig("DB_USER"),
			utils.GetConfig("DB_PASSWORD"),
			utils.GetConfig("DB_NAME"),
			utils.GetConfig("DB_PORT"),
		)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", utils.GetConfig("DB_DRIVER"))
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}
