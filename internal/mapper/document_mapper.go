package mapper

import (
	"log"
	"time"

	"dossier-be/internal/entity"
	"dossier-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	status, err := entity.ParseDocumentStatus(d.Status)
	if err != nil {
		// The check constraint should make this unreachable; surface it as a failure
		// rather than inventing a fifth state.
		log.Printf("[WARN] document %s: %v", d.Id, err)
		status = entity.DocumentStatusFailed
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:          d.Id,
		CaseFileId:  d.CaseFileId,
		Name:        d.Name,
		FileUrl:     d.FileUrl,
		StoragePath: d.StoragePath,
		Status:      status,
		RawText:     d.RawText,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Document{
		Id:          d.Id,
		CaseFileId:  d.CaseFileId,
		Name:        d.Name,
		FileUrl:     d.FileUrl,
		StoragePath: d.StoragePath,
		Status:      string(d.Status),
		RawText:     d.RawText,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *DocumentMapper) ToEntities(documents []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(documents))
	for i, d := range documents {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
