package dto

import "github.com/google/uuid"

// Payloads of the extraction and retrieval endpoints keep the raw shapes
// their callers expect instead of the response envelope.

type ProcessDocumentRequest struct {
	DocumentId string `json:"document_id"`
}

type ProcessDocumentResponse struct {
	Status         string `json:"status"`
	FactsExtracted int    `json:"facts_extracted"`
}

type ChatRequest struct {
	Question   string `json:"question"`
	CaseFileId string `json:"dossier_id"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

// PublishEmbedDocumentMessage asks the embedding consumer to (re)index a document.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

// ExtractedFact is one element of the LLM's {"facts": [...]} reply.
type ExtractedFact struct {
	EventDate   *string `json:"event_date"`
	Description *string `json:"description"`
	Actors      *string `json:"actors"`
	EventType   *string `json:"event_type"`
}

type ExtractedFacts struct {
	Facts []ExtractedFact `json:"facts"`
}
