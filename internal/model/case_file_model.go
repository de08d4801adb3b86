package model

import (
	"time"

	"github.com/google/uuid"
)

type CaseFile struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Category  string    `gorm:"type:varchar(100);not null;default:'General'"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (CaseFile) TableName() string {
	return "case_files"
}
