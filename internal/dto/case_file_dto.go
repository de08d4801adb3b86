package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCaseFileRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Category string `json:"category" validate:"omitempty,oneof=General 'Public Procurement'"`
}

type CreateCaseFileResponse struct {
	Id uuid.UUID `json:"id"`
}

type CaseFileResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
