package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vsinha/mrpplan/pkg/infrastructure/logger"
)

const (
	sqlitePrefix = "sqlite://"
	memoryDSN    = ":memory:"
)

// Dialector picks the gorm driver for a DSN.
// "sqlite://path" and ":memory:" open SQLite; anything else is handed to PostgreSQL.
func Dialector(dsn string) (gorm.Dialector, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("database DSN is empty")
	case dsn == memoryDSN:
		return sqlite.Open(memoryDSN), nil
	case strings.HasPrefix(dsn, sqlitePrefix):
		path := strings.TrimPrefix(dsn, sqlitePrefix)
		if path == "" {
			return nil, fmt.Errorf("sqlite DSN has no path: %q", dsn)
		}
		return sqlite.Open(path), nil
	default:
		return postgres.Open(dsn), nil
	}
}

// Open connects to the database named by dsn
func Open(dsn string) (*gorm.DB, error) {
	dialector, err := Dialector(dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// every pooled connection to :memory: would see its own empty database
	if strings.TrimSpace(dsn) == memoryDSN {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	logger.Logger.Info().Str("driver", dialector.Name()).Msg("Database connection established")
	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
