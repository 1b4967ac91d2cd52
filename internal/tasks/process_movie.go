package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"

	"github.com/plotwist/importer/internal/entities"
	"github.com/plotwist/importer/internal/tmdb"
)

// ProcessMovieTask matches one imported movie against TMDB and records
// the outcome on its row.
type ProcessMovieTask struct {
	MovieID  string `json:"movie_id"`
	ImportID string `json:"import_id"`
	Name     string `json:"name"`
}

// Config returns the queue configuration for movie processing tasks.
func (t ProcessMovieTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "process_import_movie",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ProcessMovieProcessor creates the processor function for
// ProcessMovieTask. A title with no TMDB match marks the item FAILED;
// transient matcher errors are returned so backlite retries the task.
func ProcessMovieProcessor(store ImportStore, matcher Matcher) backlite.QueueProcessor[ProcessMovieTask] {
	return func(ctx context.Context, task ProcessMovieTask) error {
		tmdbID, err := matcher.MatchMovie(ctx, task.Name)
		if err != nil {
			if errors.Is(err, tmdb.ErrNoMatch) {
				logrus.WithField("movie_id", task.MovieID).WithField("name", task.Name).
					Info("no match for imported movie, marking failed")
				return settleMovie(ctx, store, task, entities.ImportStatusFailed, nil)
			}
			return fmt.Errorf("match movie %s: %w", task.MovieID, err)
		}

		return settleMovie(ctx, store, task, entities.ImportStatusCompleted, &tmdbID)
	}
}

func settleMovie(ctx context.Context, store ImportStore, task ProcessMovieTask, status entities.ImportStatus, tmdbID *int64) error {
	if err := store.MarkMovieStatus(ctx, task.MovieID, status, tmdbID); err != nil {
		return fmt.Errorf("mark movie %s: %w", task.MovieID, err)
	}
	if err := store.CheckAndFinalizeImport(ctx, task.ImportID); err != nil {
		return fmt.Errorf("finalize import %s: %w", task.ImportID, err)
	}
	return nil
}

// NewProcessMovieQueue creates a backlite queue for movie processing.
func NewProcessMovieQueue(store ImportStore, matcher Matcher) backlite.Queue {
	return backlite.NewQueue(ProcessMovieProcessor(store, matcher))
}
