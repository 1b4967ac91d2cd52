package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultDatabasePath is where the sqlite database lands when nothing is
// configured.
const DefaultDatabasePath = "./importer.db"

type (
	Config struct {
		Database
		Tasks
		TMDB
		Finalizer
		Log
		Global
	}

	Database struct {
		Driver string
		Path   string // sqlite file path
		DSN    string // postgres connection string
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		MaxAttempts       int
		Backoff           time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	TMDB struct {
		Token   string
		BaseURL string
		Timeout time.Duration
	}

	Finalizer struct {
		Enabled  bool
		Schedule string // Cron format: "*/5 * * * *" = every 5 minutes
	}

	Log struct {
		Level  string
		Format string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("database_driver", DriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_attempts", 3)
	v.SetDefault("task_backoff", "30s")
	v.SetDefault("task_timeout", "2m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// TMDB matching defaults
	v.SetDefault("tmdb_token", "")
	v.SetDefault("tmdb_base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb_timeout", "10s")

	// Finalizer sweep defaults
	v.SetDefault("finalizer_enabled", true)
	v.SetDefault("finalizer_schedule", "*/5 * * * *") // Every 5 minutes

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("shutdown_timeout_in_seconds", 5)

	return &Config{
		Database: Database{
			Driver: v.GetString("DATABASE_DRIVER"),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxAttempts:       v.GetInt("TASK_MAX_ATTEMPTS"),
			Backoff:           v.GetDuration("TASK_BACKOFF"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		TMDB: TMDB{
			Token:   v.GetString("TMDB_TOKEN"),
			BaseURL: v.GetString("TMDB_BASE_URL"),
			Timeout: v.GetDuration("TMDB_TIMEOUT"),
		},
		Finalizer: Finalizer{
			Enabled:  v.GetBool("FINALIZER_ENABLED"),
			Schedule: v.GetString("FINALIZER_SCHEDULE"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
