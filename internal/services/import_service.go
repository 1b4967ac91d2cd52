package services

import (
	"context"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/plotwist/importer/internal/entities"
	"github.com/plotwist/importer/internal/importers"
)

// ImportService handles the business logic for importing watch history:
// decode the uploaded archive, assemble the pending batch, persist it,
// and hand the items to the background queue.
type ImportService struct {
	creator   ImportCreator
	publisher ItemPublisher
}

// NewImportService creates a new ImportService. publisher may be nil when
// no background processing is wired (e.g. one-shot CLI imports).
func NewImportService(creator ImportCreator, publisher ItemPublisher) *ImportService {
	return &ImportService{
		creator:   creator,
		publisher: publisher,
	}
}

// Import decodes an uploaded export archive for the given provider and
// persists it as a single pending batch owned by userID.
//
// The returned batch carries the server-generated ids and timestamps of
// the header and every child row. Errors are classified: decode failures
// surface as *importers.DomainError, a missing user as
// *imports.UserNotFoundError from the persister, and anything unexpected
// is wrapped rather than leaked.
func (s *ImportService) Import(ctx context.Context, userID string, provider entities.Provider, upload io.Reader) (*entities.UserImport, error) {
	data, err := io.ReadAll(upload)
	if err != nil {
		return nil, importers.NewDomainError("Unable to read the uploaded file", http.StatusUnprocessableEntity)
	}

	movies, series, err := importers.Decode(provider, data)
	if err != nil {
		return nil, err
	}

	userImport := &entities.UserImport{
		UserID:       userID,
		Provider:     provider,
		ItemsCount:   len(movies) + len(series),
		ImportStatus: entities.ImportStatusNotStarted,
		Movies:       movies,
		Series:       series,
	}

	created, err := s.creator.CreateUserImport(ctx, userImport)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishImportItems(ctx, created); err != nil {
			// The batch is already durable; its items stay NOT_STARTED
			// until the next enqueue sweep picks them up.
			logrus.WithError(err).WithField("import_id", created.ID).
				Warn("failed to publish import items to the queue")
		}
	}

	return created, nil
}
