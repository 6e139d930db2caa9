// Package db opens the gorm connection for the configured engine.
package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/articlegate/articlegate/internal/config"
	"github.com/articlegate/articlegate/internal/db/dsn"
	gormadapter "github.com/articlegate/articlegate/internal/logger/adapter/gorm"
)

const slowQueryThreshold = 200 * time.Millisecond

// Open connects to the database selected by cfg.DB.GormEngine.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		dialector = mysql.Open(dsn.MySQL(&cfg.DB))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Postgres(&cfg.DB))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.SQLite(&cfg.DB))
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}

	level := gormlogger.Warn
	if cfg.DevMode {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormadapter.New(slowQueryThreshold).LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DB.GormEngine, err)
	}

	// a sqlite memory database lives per connection
	if cfg.DB.GormEngine == config.EngineSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}
