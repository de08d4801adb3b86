package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryGeneral           = "General"
	CategoryPublicProcurement = "Public Procurement"
)

type CaseFile struct {
	Id        uuid.UUID
	Name      string
	Category  string
	CreatedAt time.Time
}
