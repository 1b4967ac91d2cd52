// Package imports provides database operations for import batches and
// their child movie and series rows.
//
// This package implements the services.ImportCreator interface:
//
//	var _ services.ImportCreator = (*Repository)(nil)
package imports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/plotwist/importer/internal/entities"
)

// pgForeignKeyViolation is the Postgres SQLSTATE for a foreign key
// constraint failure.
const pgForeignKeyViolation = "23503"

// Repository handles all import batch database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new imports repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUserImport persists a batch header and all of its child rows in
// one transaction, so a header without children (or the reverse) can
// never be observed. Ids are generated here; timestamps by the database
// layer. The returned batch is the header enriched with the persisted
// children.
//
// A foreign key violation on the owning user is translated to
// *UserNotFoundError; every other storage failure becomes *InsertError.
func (r *Repository) CreateUserImport(ctx context.Context, userImport *entities.UserImport) (*entities.UserImport, error) {
	header := entities.UserImport{
		ID:           uuid.NewString(),
		UserID:       userImport.UserID,
		Provider:     userImport.Provider,
		ItemsCount:   userImport.ItemsCount,
		ImportStatus: entities.ImportStatusNotStarted,
	}

	movies := make([]entities.ImportMovie, len(userImport.Movies))
	for i, movie := range userImport.Movies {
		movie.ID = uuid.NewString()
		movie.ImportID = header.ID
		movies[i] = movie
	}

	series := make([]entities.ImportSeries, len(userImport.Series))
	for i, s := range userImport.Series {
		s.ID = uuid.NewString()
		s.ImportID = header.ID
		series[i] = s
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&header).Error; err != nil {
			return err
		}
		if len(movies) > 0 {
			if err := tx.Create(&movies).Error; err != nil {
				return err
			}
		}
		if len(series) > 0 {
			if err := tx.Create(&series).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &UserNotFoundError{UserID: userImport.UserID}
		}
		return nil, &InsertError{Err: err}
	}

	header.Movies = movies
	header.Series = series
	return &header, nil
}

// GetDetailedUserImport loads a batch header together with all of its
// child rows.
func (r *Repository) GetDetailedUserImport(ctx context.Context, id string) (*entities.UserImport, error) {
	var userImport entities.UserImport
	err := r.db.WithContext(ctx).
		Preload("Movies").
		Preload("Series").
		Where("id = ?", id).
		First(&userImport).Error
	if err != nil {
		return nil, err
	}
	return &userImport, nil
}

// MarkMovieStatus records the processing outcome for one imported movie.
// tmdbID may be nil when matching failed.
func (r *Repository) MarkMovieStatus(ctx context.Context, movieID string, status entities.ImportStatus, tmdbID *int64) error {
	return r.db.WithContext(ctx).
		Model(&entities.ImportMovie{}).
		Where("id = ?", movieID).
		Updates(map[string]any{"import_status": status, "tmdb_id": tmdbID}).Error
}

// MarkSeriesStatus records the processing outcome for one imported series.
func (r *Repository) MarkSeriesStatus(ctx context.Context, seriesID string, status entities.ImportStatus, tmdbID *int64) error {
	return r.db.WithContext(ctx).
		Model(&entities.ImportSeries{}).
		Where("id = ?", seriesID).
		Updates(map[string]any{"import_status": status, "tmdb_id": tmdbID}).Error
}

// CheckAndFinalizeImport recomputes the batch status from its items:
// COMPLETED once every item settled, FAILED when every item settled by
// failing, PARTIAL while some but not all items settled. Batches with no
// settled items are left untouched.
func (r *Repository) CheckAndFinalizeImport(ctx context.Context, importID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending, failed, total int64

		for _, model := range []any{&entities.ImportMovie{}, &entities.ImportSeries{}} {
			var count int64
			if err := tx.Model(model).
				Where("import_id = ? AND import_status NOT IN ?", importID,
					[]entities.ImportStatus{entities.ImportStatusCompleted, entities.ImportStatusFailed}).
				Count(&count).Error; err != nil {
				return err
			}
			pending += count

			if err := tx.Model(model).
				Where("import_id = ? AND import_status = ?", importID, entities.ImportStatusFailed).
				Count(&count).Error; err != nil {
				return err
			}
			failed += count

			if err := tx.Model(model).
				Where("import_id = ?", importID).
				Count(&count).Error; err != nil {
				return err
			}
			total += count
		}

		var status entities.ImportStatus
		switch {
		case pending == 0 && total > 0 && failed == total:
			status = entities.ImportStatusFailed
		case pending == 0:
			status = entities.ImportStatusCompleted
		case pending < total:
			status = entities.ImportStatusPartial
		default:
			return nil
		}

		return tx.Model(&entities.UserImport{}).
			Where("id = ?", importID).
			Update("import_status", status).Error
	})
}

// ListUnfinishedImports returns batches whose header has not reached a
// terminal status and has not been touched since staleBefore, with their
// still-pending children preloaded. The background sweeper uses this to
// re-enqueue stalled items and finalize settled batches; the staleness
// cutoff keeps it from double-enqueueing items that are already queued.
func (r *Repository) ListUnfinishedImports(ctx context.Context, staleBefore time.Time) ([]entities.UserImport, error) {
	open := []entities.ImportStatus{entities.ImportStatusNotStarted, entities.ImportStatusPartial}

	var userImports []entities.UserImport
	err := r.db.WithContext(ctx).
		Preload("Movies", "import_status = ?", entities.ImportStatusNotStarted).
		Preload("Series", "import_status = ?", entities.ImportStatusNotStarted).
		Where("import_status IN ? AND updated_at < ?", open, staleBefore).
		Find(&userImports).Error
	if err != nil {
		return nil, err
	}
	return userImports, nil
}

// isForeignKeyViolation narrows the one storage error class this
// repository knows how to translate, for both supported drivers.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}

	return false
}
