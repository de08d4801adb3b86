package contract

import (
	"context"

	"dossier-be/internal/entity"
	"dossier-be/internal/repository/specification"
)

type CaseFileRepository interface {
	Create(ctx context.Context, caseFile *entity.CaseFile) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CaseFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseFile, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
