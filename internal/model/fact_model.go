package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Fact struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaseFileId  uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocumentId  *uuid.UUID      `gorm:"type:uuid;index"`
	EventDate   *datatypes.Date `gorm:"index"`
	EventType   *string         `gorm:"type:varchar(255)"`
	Actors      *string         `gorm:"type:text"`
	Description *string         `gorm:"type:text"`
}

func (Fact) TableName() string {
	return "facts"
}
