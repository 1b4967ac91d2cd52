// Package scheduler runs periodic maintenance over import batches.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/plotwist/importer/internal/entities"
	"github.com/plotwist/importer/internal/services"
)

// staleAfter is how long a non-terminal batch must sit untouched before
// the sweeper re-enqueues its pending items. Long enough that items
// still waiting in the queue are not enqueued twice.
const staleAfter = 30 * time.Minute

// sweepTimeout bounds one full sweep.
const sweepTimeout = 5 * time.Minute

// SweepStore is the slice of the imports repository the sweeper needs.
type SweepStore interface {
	ListUnfinishedImports(ctx context.Context, staleBefore time.Time) ([]entities.UserImport, error)
	CheckAndFinalizeImport(ctx context.Context, importID string) error
}

// FinalizerScheduler periodically picks up batches that stalled between
// item settlement and header finalization: it re-enqueues items that
// never got processed and recomputes the header status from the items.
type FinalizerScheduler struct {
	store     SweepStore
	publisher services.ItemPublisher
	schedule  string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

// NewFinalizerScheduler creates a new scheduler instance.
func NewFinalizerScheduler(store SweepStore, publisher services.ItemPublisher, schedule string) *FinalizerScheduler {
	return &FinalizerScheduler{
		store:     store,
		publisher: publisher,
		schedule:  schedule,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the periodic sweep.
func (s *FinalizerScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runSweep)
	if err != nil {
		return fmt.Errorf("failed to schedule finalizer sweep: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true
	logrus.WithField("schedule", s.schedule).Info("import finalizer scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *FinalizerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	logrus.Info("import finalizer scheduler stopped")
}

// RunOnce performs a single sweep immediately. Exposed for the CLI and
// tests; the cron entry calls the same code.
func (s *FinalizerScheduler) RunOnce(ctx context.Context) error {
	userImports, err := s.store.ListUnfinishedImports(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		return fmt.Errorf("list unfinished imports: %w", err)
	}

	for _, userImport := range userImports {
		if s.publisher != nil && len(userImport.Movies)+len(userImport.Series) > 0 {
			if err := s.publisher.PublishImportItems(ctx, &userImport); err != nil {
				logrus.WithError(err).WithField("import_id", userImport.ID).
					Warn("failed to re-enqueue stalled import items")
				continue
			}
		}

		if err := s.store.CheckAndFinalizeImport(ctx, userImport.ID); err != nil {
			logrus.WithError(err).WithField("import_id", userImport.ID).
				Warn("failed to finalize import")
		}
	}

	return nil
}

func (s *FinalizerScheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		logrus.WithError(err).Error("import finalizer sweep failed")
	}
}
