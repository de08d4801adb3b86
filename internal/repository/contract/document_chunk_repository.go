package contract

import (
	"context"

	"dossier-be/internal/entity"
	"dossier-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, caseFileId uuid.UUID, threshold float64) ([]*ScoredDocumentChunk, error)
}
