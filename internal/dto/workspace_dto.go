package dto

import (
	"time"

	"github.com/google/uuid"
)

type OpenWorkspaceRequest struct {
	CaseFileId uuid.UUID `json:"dossier_id" validate:"required"`
}

type OpenWorkspaceResponse struct {
	Id         uuid.UUID `json:"id"`
	CaseFileId uuid.UUID `json:"dossier_id"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Accepted bool `json:"accepted"`
}

type ProcessDocumentAccepted struct {
	DocumentId uuid.UUID `json:"document_id"`
	Accepted   bool      `json:"accepted"`
}

type DocumentResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	FileUrl   string     `json:"file_url"`
	Status    string     `json:"status"`
	Stalled   bool       `json:"stalled"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type FactResponse struct {
	Id          uuid.UUID  `json:"id"`
	DocumentId  *uuid.UUID `json:"document_id"`
	EventDate   *string    `json:"event_date"`
	EventType   *string    `json:"event_type"`
	Actors      *string    `json:"actors"`
	Description *string    `json:"description"`
}

type TimelineEntryResponse struct {
	Title        string `json:"title"`
	CardTitle    string `json:"card_title"`
	CardSubtitle string `json:"card_subtitle"`
	Body         string `json:"body"`
}

type ChatMessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// WorkspaceViewResponse is everything a client renders for one workspace.
// CaseFile is nil until the first refresh succeeded.
type WorkspaceViewResponse struct {
	Id             uuid.UUID               `json:"id"`
	CaseFileId     uuid.UUID               `json:"dossier_id"`
	CaseFile       *CaseFileResponse       `json:"dossier"`
	Documents      []DocumentResponse      `json:"documents"`
	Facts          []FactResponse          `json:"facts"`
	Timeline       []TimelineEntryResponse `json:"timeline"`
	TimelineNotice string                  `json:"timeline_notice,omitempty"`
	Transcript     []ChatMessageResponse   `json:"transcript"`
	Busy           bool                    `json:"busy"`
	Input          string                  `json:"input"`
}
