package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentStatus is the processing state of an uploaded document.
type DocumentStatus string

const (
	DocumentStatusToProcess  DocumentStatus = "to_process"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusProcessed  DocumentStatus = "processed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

var documentTransitions = map[DocumentStatus][]DocumentStatus{
	DocumentStatusToProcess:  {DocumentStatusProcessing},
	DocumentStatusProcessing: {DocumentStatusProcessed, DocumentStatusFailed},
}

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusToProcess, DocumentStatusProcessing, DocumentStatusProcessed, DocumentStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentStatusProcessed || s == DocumentStatusFailed
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	for _, allowed := range documentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseDocumentStatus(raw string) (DocumentStatus, error) {
	s := DocumentStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid document status %q", raw)
	}
	return s, nil
}

type Document struct {
	Id          uuid.UUID
	CaseFileId  uuid.UUID
	Name        string
	FileUrl     string
	StoragePath string
	Status      DocumentStatus
	RawText     string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
