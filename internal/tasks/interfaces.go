package tasks

import (
	"context"

	"github.com/plotwist/importer/internal/entities"
)

// ImportStore is the slice of the imports repository the processors
// need: record per-item outcomes and finalize settled batches.
type ImportStore interface {
	MarkMovieStatus(ctx context.Context, movieID string, status entities.ImportStatus, tmdbID *int64) error
	MarkSeriesStatus(ctx context.Context, seriesID string, status entities.ImportStatus, tmdbID *int64) error
	CheckAndFinalizeImport(ctx context.Context, importID string) error
}

// Matcher resolves an imported title to an external catalog id.
type Matcher interface {
	MatchMovie(ctx context.Context, name string) (int64, error)
	MatchSeries(ctx context.Context, name string) (int64, error)
}
