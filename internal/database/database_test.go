package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotwist/importer/internal/config"
	"github.com/plotwist/importer/internal/entities"
)

func TestNewDatabase_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created")

	// Schema is migrated on open
	for _, model := range []any{
		&entities.User{},
		&entities.UserImport{},
		&entities.ImportMovie{},
		&entities.ImportSeries{},
	} {
		assert.True(t, db.DB.Migrator().HasTable(model))
	}
}

func TestNewDatabase_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestNewDatabase_EnforcesForeignKeys(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)
	defer db.Close()

	orphan := &entities.UserImport{
		ID:           "import-1",
		UserID:       "no-such-user",
		Provider:     entities.ProviderLetterboxd,
		ImportStatus: entities.ImportStatusNotStarted,
	}
	err = db.DB.Create(orphan).Error
	assert.Error(t, err, "an import without an owning user must be rejected")
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(config.Database{Driver: "oracle"})
	assert.ErrorContains(t, err, "unknown database driver")
}
