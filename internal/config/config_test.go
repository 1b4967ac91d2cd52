package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Empty(t, cfg.Database.DSN)

	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 2, cfg.Tasks.Workers)
	assert.Equal(t, 3, cfg.Tasks.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Tasks.Backoff)
	assert.Equal(t, 2*time.Minute, cfg.Tasks.TaskTimeout)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.TMDB.Timeout)

	assert.True(t, cfg.Finalizer.Enabled)
	assert.Equal(t, "*/5 * * * *", cfg.Finalizer.Schedule)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Global.ShutdownTimeoutInSeconds)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", DriverPostgres)
	t.Setenv("DATABASE_DSN", "host=localhost user=plotwist dbname=plotwist")
	t.Setenv("TASK_WORKERS", "8")
	t.Setenv("FINALIZER_ENABLED", "false")

	cfg := NewConfig()

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "host=localhost user=plotwist dbname=plotwist", cfg.Database.DSN)
	assert.Equal(t, 8, cfg.Tasks.Workers)
	assert.False(t, cfg.Finalizer.Enabled)
}
