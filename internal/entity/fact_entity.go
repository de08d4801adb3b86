package entity

import (
	"time"

	"github.com/google/uuid"
)

// Fact is a dated event extracted from a document. Every optional field
// may be nil when the extractor could not determine it.
type Fact struct {
	Id          uuid.UUID
	CaseFileId  uuid.UUID
	DocumentId  *uuid.UUID
	EventDate   *time.Time
	EventType   *string
	Actors      *string
	Description *string
}
