package mapper

import (
	"dossier-be/internal/entity"
	"dossier-be/internal/model"
)

type CaseFileMapper struct{}

func NewCaseFileMapper() *CaseFileMapper {
	return &CaseFileMapper{}
}

func (m *CaseFileMapper) ToEntity(c *model.CaseFile) *entity.CaseFile {
	if c == nil {
		return nil
	}
	return &entity.CaseFile{
		Id:        c.Id,
		Name:      c.Name,
		Category:  c.Category,
		CreatedAt: c.CreatedAt,
	}
}

func (m *CaseFileMapper) ToModel(c *entity.CaseFile) *model.CaseFile {
	if c == nil {
		return nil
	}
	return &model.CaseFile{
		Id:        c.Id,
		Name:      c.Name,
		Category:  c.Category,
		CreatedAt: c.CreatedAt,
	}
}

func (m *CaseFileMapper) ToEntities(caseFiles []*model.CaseFile) []*entity.CaseFile {
	entities := make([]*entity.CaseFile, len(caseFiles))
	for i, c := range caseFiles {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
