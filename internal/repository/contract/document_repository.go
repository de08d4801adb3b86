package contract

import (
	"context"

	"dossier-be/internal/entity"
	"dossier-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	// TransitionStatus moves the document from one status to the next only if it
	// is still in from. It returns false when another writer got there first.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.DocumentStatus) (bool, error)
	UpdateRawText(ctx context.Context, id uuid.UUID, rawText string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
}
