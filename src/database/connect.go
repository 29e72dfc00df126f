package database

import (
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"spottrader/src/model"
)

// DB is the process-wide handle used by the report sink and the candle
// store. Initialized once at startup by commands that need persistence.
var DB *gorm.DB

func InitDB() error {
	if DB != nil {
		return nil
	}

	config := GetConfig()

	var dialector gorm.Dialector
	switch config.Driver {
	case "postgres":
		dialector = postgres.Open(config.DSN)
	case "sqlite":
		dialector = sqlite.Open(config.DSN)
	default:
		return fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.LogLevel(config.GormLogLevel)),
	})
	if err != nil {
		logger.WithError(err).Error("failed to connect to database")
		return err
	}

	if config.Driver == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(1 * time.Hour)
	}

	if err := db.AutoMigrate(
		&model.IterationRecord{},
		&model.OHLCV{},
	); err != nil {
		logger.WithError(err).Error("failed to migrate database")
		return err
	}

	DB = db
	logger.WithField("driver", config.Driver).Info("database connection initialized")
	return nil
}
