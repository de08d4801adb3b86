package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaseFileId  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	FileUrl     string    `gorm:"type:text;not null"`
	StoragePath string    `gorm:"type:text;not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'to_process';check:chk_documents_status,status IN ('to_process','processing','processed','failed')"`
	RawText     string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
