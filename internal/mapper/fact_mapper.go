package mapper

import (
	"time"

	"dossier-be/internal/entity"
	"dossier-be/internal/model"

	"gorm.io/datatypes"
)

type FactMapper struct{}

func NewFactMapper() *FactMapper {
	return &FactMapper{}
}

func (m *FactMapper) ToEntity(f *model.Fact) *entity.Fact {
	if f == nil {
		return nil
	}

	var eventDate *time.Time
	if f.EventDate != nil {
		t := time.Time(*f.EventDate)
		eventDate = &t
	}

	return &entity.Fact{
		Id:          f.Id,
		CaseFileId:  f.CaseFileId,
		DocumentId:  f.DocumentId,
		EventDate:   eventDate,
		EventType:   f.EventType,
		Actors:      f.Actors,
		Description: f.Description,
	}
}

func (m *FactMapper) ToModel(f *entity.Fact) *model.Fact {
	if f == nil {
		return nil
	}

	var eventDate *datatypes.Date
	if f.EventDate != nil {
		d := datatypes.Date(*f.EventDate)
		eventDate = &d
	}

	return &model.Fact{
		Id:          f.Id,
		CaseFileId:  f.CaseFileId,
		DocumentId:  f.DocumentId,
		EventDate:   eventDate,
		EventType:   f.EventType,
		Actors:      f.Actors,
		Description: f.Description,
	}
}

func (m *FactMapper) ToEntities(facts []*model.Fact) []*entity.Fact {
	entities := make([]*entity.Fact, len(facts))
	for i, f := range facts {
		entities[i] = m.ToEntity(f)
	}
	return entities
}

func (m *FactMapper) ToModels(facts []*entity.Fact) []*model.Fact {
	models := make([]*model.Fact, len(facts))
	for i, f := range facts {
		models[i] = m.ToModel(f)
	}
	return models
}
