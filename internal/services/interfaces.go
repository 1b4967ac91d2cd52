package services

import (
	"context"

	"github.com/plotwist/importer/internal/entities"
)

// ImportCreator persists a fully assembled import batch. The write must
// be atomic: header and children either all land or none do.
// Use this interface when you need to store a decoded import.
type ImportCreator interface {
	CreateUserImport(ctx context.Context, userImport *entities.UserImport) (*entities.UserImport, error)
}

// ItemPublisher enqueues one background processing task per imported
// item after the batch has been persisted.
type ItemPublisher interface {
	PublishImportItems(ctx context.Context, userImport *entities.UserImport) error
}
