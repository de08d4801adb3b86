// Package gateway adapts the repository layer, local disk and remote HTTP
// services to the casefile collaborator interfaces.
package gateway

import (
	"context"
	"fmt"

	"dossier-be/internal/apperror"
	"dossier-be/internal/entity"
	"dossier-be/internal/repository/specification"
	"dossier-be/internal/repository/unitofwork"
	"dossier-be/pkg/casefile"

	"github.com/google/uuid"
)

var _ casefile.RecordStore = (*RecordStore)(nil)

// RecordStore reads and writes case-file records through the unit of work.
type RecordStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewRecordStore(uowFactory unitofwork.RepositoryFactory) *RecordStore {
	return &RecordStore{uowFactory: uowFactory}
}

func (s *RecordStore) FindCaseFile(ctx context.Context, id uuid.UUID) (*entity.CaseFile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	caseFile, err := uow.CaseFileRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, fmt.Errorf("find case file: %w", err)
	}
	if caseFile == nil {
		return nil, apperror.ErrCaseFileNotFound
	}
	return caseFile, nil
}

func (s *RecordStore) ListDocuments(ctx context.Context, caseFileID uuid.UUID) ([]*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByCaseFileID{CaseFileID: caseFileID},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *RecordStore) ListFacts(ctx context.Context, caseFileID uuid.UUID) ([]*entity.Fact, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	facts, err := uow.FactRepository().FindAll(ctx,
		specification.ByCaseFileID{CaseFileID: caseFileID},
		specification.OrderByNullsLast{Field: "event_date"},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	return facts, nil
}

func (s *RecordStore) InsertDocument(ctx context.Context, doc *entity.Document) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}
