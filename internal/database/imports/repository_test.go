package imports

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plotwist/importer/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_imports_" + t.Name() + ".db"

	// Foreign keys must be enforced for the user-not-found translation
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.UserImport{},
		&entities.ImportMovie{},
		&entities.ImportSeries{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB) *entities.User {
	t.Helper()

	user := &entities.User{
		ID:       uuid.NewString(),
		Username: "testuser",
		Email:    "test@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func watchDate(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func pendingBatch(userID string, movies, series int) *entities.UserImport {
	batch := &entities.UserImport{
		UserID:       userID,
		Provider:     entities.ProviderLetterboxd,
		ItemsCount:   movies + series,
		ImportStatus: entities.ImportStatusNotStarted,
	}
	for i := 0; i < movies; i++ {
		batch.Movies = append(batch.Movies, entities.ImportMovie{
			Name:           "Movie",
			EndDate:        watchDate(2021, 5, 1),
			UserItemStatus: entities.ItemStatusWatched,
			ImportStatus:   entities.ImportStatusNotStarted,
			Metadata:       entities.Metadata{"Name": "Movie"},
		})
	}
	for i := 0; i < series; i++ {
		batch.Series = append(batch.Series, entities.ImportSeries{
			Name:           "Series",
			UserItemStatus: entities.ItemStatusWatching,
			ImportStatus:   entities.ImportStatusNotStarted,
		})
	}
	return batch
}

func TestCreateUserImport(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db)

	created, err := repo.CreateUserImport(context.Background(), pendingBatch(user.ID, 2, 1))

	require.NoError(t, err)
	assert.Len(t, created.ID, 36)
	assert.Equal(t, user.ID, created.UserID)
	assert.Equal(t, 3, created.ItemsCount)
	assert.Equal(t, entities.ImportStatusNotStarted, created.ImportStatus)
	require.Len(t, created.Movies, 2)
	require.Len(t, created.Series, 1)

	for _, movie := range created.Movies {
		assert.Len(t, movie.ID, 36)
		assert.Equal(t, created.ID, movie.ImportID)
	}
	assert.Equal(t, created.ID, created.Series[0].ImportID)

	// Round-trip: children land with metadata intact
	stored, err := repo.GetDetailedUserImport(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, stored.Movies, 2)
	assert.Equal(t, "Movie", stored.Movies[0].Metadata["Name"])
	assert.NotZero(t, stored.CreatedAt)
}

func TestCreateUserImport_EmptyBatch(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db)

	created, err := repo.CreateUserImport(context.Background(), pendingBatch(user.ID, 0, 0))

	require.NoError(t, err)
	assert.Equal(t, 0, created.ItemsCount)
	assert.Empty(t, created.Movies)
	assert.Empty(t, created.Series)
}

func TestCreateUserImport_UnknownUser(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateUserImport(context.Background(), pendingBatch("no-such-user", 1, 0))

	var notFound *UserNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no-such-user", notFound.UserID)

	// The failed transaction must leave no orphan rows behind
	var headers int64
	require.NoError(t, repo.db.Model(&entities.UserImport{}).Count(&headers).Error)
	assert.Zero(t, headers)

	var movies int64
	require.NoError(t, repo.db.Model(&entities.ImportMovie{}).Count(&movies).Error)
	assert.Zero(t, movies)
}

func TestMarkMovieStatus(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db)
	created, err := repo.CreateUserImport(context.Background(), pendingBatch(user.ID, 1, 0))
	require.NoError(t, err)

	tmdbID := int64(329865)
	err = repo.MarkMovieStatus(context.Background(), created.Movies[0].ID, entities.ImportStatusCompleted, &tmdbID)
	require.NoError(t, err)

	stored, err := repo.GetDetailedUserImport(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusCompleted, stored.Movies[0].ImportStatus)
	require.NotNil(t, stored.Movies[0].TmdbID)
	assert.Equal(t, tmdbID, *stored.Movies[0].TmdbID)
}

func TestCheckAndFinalizeImport_Completed(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db)
	created, err := repo.CreateUserImport(context.Background(), pendingBatch(user.ID, 1, 1))
	require.NoError(t, err)

	tmdbID := int64(100)
	require.NoError(t, repo.MarkMovieStatus(context.Background(), created.Movies[0].ID, entities.ImportStatusCompleted, &tmdbID))
	require.NoError(t, repo.MarkSeriesStatus(context.Background(), created.Series[0].ID, entities.ImportStatusCompleted, &tmdbID))

	require.NoError(t, repo.CheckAndFinalizeImport(context.Background(), created.ID))

	stored, err := repo.GetDetailedUserImport(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusCompleted, stored.ImportStatus)
}

func TestCheckAndFinalizeImport_AllFailed(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db)
	created, err := repo.CreateUserImport(context.Background(), pendingBatch(user.ID, 2, 0))
	require.NoError(t, err)

	for _, movie := range created.Movies {
		require.NoError(t, repo.MarkMovieStatus(context.Background(), movie.ID, entities.ImportStatusFailed, nil))
	}

	require.NoError(t, repo.CheckAndFinalizeImport(context.Background(), created.ID))

	stored, err := repo.GetDetailedUserImport(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusFailed, stored.ImportStatus)
}

func TestCheckAndFinalizeImport_Partial(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db)
	created, err := repo.CreateUserImport(context.Background(), pendingBatch(user.ID, 2, 0))
	require.NoError(t, err)

	tmdbID := int64(100)
	require.NoError(t, repo.MarkMovieStatus(context.Background(), created.Movies[0].ID, entities.ImportStatusCompleted, &tmdbID))

	require.NoError(t, repo.CheckAndFinalizeImport(context.Background(), created.ID))

	stored, err := repo.GetDetailedUserImport(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusPartial, stored.ImportStatus)
}

func TestCheckAndFinalizeImport_NothingSettled(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db)
	created, err := repo.CreateUserImport(context.Background(), pendingBatch(user.ID, 1, 0))
	require.NoError(t, err)

	require.NoError(t, repo.CheckAndFinalizeImport(context.Background(), created.ID))

	stored, err := repo.GetDetailedUserImport(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusNotStarted, stored.ImportStatus)
}

func TestCheckAndFinalizeImport_EmptyBatchCompletes(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db)
	created, err := repo.CreateUserImport(context.Background(), pendingBatch(user.ID, 0, 0))
	require.NoError(t, err)

	require.NoError(t, repo.CheckAndFinalizeImport(context.Background(), created.ID))

	stored, err := repo.GetDetailedUserImport(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusCompleted, stored.ImportStatus)
}

func TestListUnfinishedImports(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db)
	created, err := repo.CreateUserImport(context.Background(), pendingBatch(user.ID, 2, 0))
	require.NoError(t, err)

	tmdbID := int64(100)
	require.NoError(t, repo.MarkMovieStatus(context.Background(), created.Movies[0].ID, entities.ImportStatusCompleted, &tmdbID))

	// Not stale yet: a cutoff in the past must exclude it
	stale, err := repo.ListUnfinishedImports(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stale)

	// Stale: only the still-pending child is preloaded
	stale, err = repo.ListUnfinishedImports(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, created.ID, stale[0].ID)
	require.Len(t, stale[0].Movies, 1)
	assert.Equal(t, created.Movies[1].ID, stale[0].Movies[0].ID)
}

func TestListUnfinishedImports_SkipsTerminal(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db)
	created, err := repo.CreateUserImport(context.Background(), pendingBatch(user.ID, 1, 0))
	require.NoError(t, err)

	tmdbID := int64(100)
	require.NoError(t, repo.MarkMovieStatus(context.Background(), created.Movies[0].ID, entities.ImportStatusCompleted, &tmdbID))
	require.NoError(t, repo.CheckAndFinalizeImport(context.Background(), created.ID))

	stale, err := repo.ListUnfinishedImports(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stale)
}
