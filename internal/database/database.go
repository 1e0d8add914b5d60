package database

import (
	"fmt"
	"strings"

	"github.com/drizzlenote/chatbot/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the word database named by cfg.DatabaseURL. postgres://
// URLs use the Postgres driver; anything else is treated as a SQLite file
// path, with an optional sqlite:// prefix.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(cfg.DBLogLevel)),
	})
	if err != nil {
		return nil, err
	}

	if dialector.Name() == "sqlite" {
		// One writer for the whole process; SQLite serializes writes anyway
		// and ":memory:" databases are per connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Dialector(databaseURL string) (gorm.Dialector, error) {
	url := strings.TrimSpace(databaseURL)
	switch {
	case url == "":
		return nil, fmt.Errorf("database URL is empty")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://")), nil
	default:
		return sqlite.Open(url), nil
	}
}

// Close releases the process-wide connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
