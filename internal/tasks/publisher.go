package tasks

import (
	"context"
	"fmt"

	"github.com/mikestefanello/backlite"

	"github.com/plotwist/importer/internal/entities"
)

// Publisher fans a persisted batch out into one queue task per item.
// It implements services.ItemPublisher.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher on top of the task queue client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// PublishImportItems enqueues a processing task for every movie and
// series in the batch. Empty collections enqueue nothing.
func (p *Publisher) PublishImportItems(ctx context.Context, userImport *entities.UserImport) error {
	if len(userImport.Movies) > 0 {
		movieTasks := make([]backlite.Task, 0, len(userImport.Movies))
		for _, movie := range userImport.Movies {
			movieTasks = append(movieTasks, ProcessMovieTask{
				MovieID:  movie.ID,
				ImportID: userImport.ID,
				Name:     movie.Name,
			})
		}
		if _, err := p.client.Add(movieTasks...).Ctx(ctx).Save(); err != nil {
			return fmt.Errorf("enqueue movie tasks: %w", err)
		}
	}

	if len(userImport.Series) > 0 {
		seriesTasks := make([]backlite.Task, 0, len(userImport.Series))
		for _, s := range userImport.Series {
			seriesTasks = append(seriesTasks, ProcessSeriesTask{
				SeriesID: s.ID,
				ImportID: userImport.ID,
				Name:     s.Name,
			})
		}
		if _, err := p.client.Add(seriesTasks...).Ctx(ctx).Save(); err != nil {
			return fmt.Errorf("enqueue series tasks: %w", err)
		}
	}

	return nil
}
