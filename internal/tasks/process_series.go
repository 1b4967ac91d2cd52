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

// ProcessSeriesTask matches one imported series against TMDB and records
// the outcome on its row.
type ProcessSeriesTask struct {
	SeriesID string `json:"series_id"`
	ImportID string `json:"import_id"`
	Name     string `json:"name"`
}

// Config returns the queue configuration for series processing tasks.
func (t ProcessSeriesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "process_import_series",
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

// ProcessSeriesProcessor creates the processor function for
// ProcessSeriesTask.
func ProcessSeriesProcessor(store ImportStore, matcher Matcher) backlite.QueueProcessor[ProcessSeriesTask] {
	return func(ctx context.Context, task ProcessSeriesTask) error {
		tmdbID, err := matcher.MatchSeries(ctx, task.Name)
		if err != nil {
			if errors.Is(err, tmdb.ErrNoMatch) {
				logrus.WithField("series_id", task.SeriesID).WithField("name", task.Name).
					Info("no match for imported series, marking failed")
				return settleSeries(ctx, store, task, entities.ImportStatusFailed, nil)
			}
			return fmt.Errorf("match series %s: %w", task.SeriesID, err)
		}

		return settleSeries(ctx, store, task, entities.ImportStatusCompleted, &tmdbID)
	}
}

func settleSeries(ctx context.Context, store ImportStore, task ProcessSeriesTask, status entities.ImportStatus, tmdbID *int64) error {
	if err := store.MarkSeriesStatus(ctx, task.SeriesID, status, tmdbID); err != nil {
		return fmt.Errorf("mark series %s: %w", task.SeriesID, err)
	}
	if err := store.CheckAndFinalizeImport(ctx, task.ImportID); err != nil {
		return fmt.Errorf("finalize import %s: %w", task.ImportID, err)
	}
	return nil
}

// NewProcessSeriesQueue creates a backlite queue for series processing.
func NewProcessSeriesQueue(store ImportStore, matcher Matcher) backlite.Queue {
	return backlite.NewQueue(ProcessSeriesProcessor(store, matcher))
}
