package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plotwist/importer/internal/config"
	"github.com/plotwist/importer/internal/entities"
)

// Database wraps the gorm handle shared by the repositories.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a connection for the configured driver and migrates
// the schema. SQLite is the default; Postgres is selected via config.
func NewDatabase(cfg config.Database) (*Database, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var db *gorm.DB
	var err error

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = gorm.Open(postgres.Open(cfg.DSN), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		// _foreign_keys must be set in the DSN so every pooled
		// connection enforces the import -> user constraint.
		db, err = gorm.Open(sqlite.Open(cfg.Path+"?_foreign_keys=on"), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.UserImport{},
		&entities.ImportMovie{},
		&entities.ImportSeries{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logrus.WithField("driver", cfg.Driver).Info("database initialized")

	return &Database{DB: db}, nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
