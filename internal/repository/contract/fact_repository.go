package contract

import (
	"context"

	"dossier-be/internal/entity"
	"dossier-be/internal/repository/specification"
)

type FactRepository interface {
	CreateBulk(ctx context.Context, facts []*entity.Fact) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Fact, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
