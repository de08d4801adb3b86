package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCaseFileID struct {
	CaseFileID uuid.UUID
}

func (s ByCaseFileID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("case_file_id = ?", s.CaseFileID)
}

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}
