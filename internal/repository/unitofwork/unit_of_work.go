package unitofwork

import (
	"context"

	"dossier-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CaseFileRepository() contract.CaseFileRepository
	DocumentRepository() contract.DocumentRepository
	FactRepository() contract.FactRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
}
