// Package casefile holds the collaborator contracts shared by the case-file
// viewing components (timeline, lifecycle, session, conversation).
package casefile

import (
	"context"
	"io"

	"dossier-be/internal/entity"

	"github.com/google/uuid"
)

// RecordStore is the durable store of case files, documents and facts.
// FindCaseFile returns apperror.ErrCaseFileNotFound when the id is unknown.
// ListDocuments orders by creation time descending; ListFacts by event date
// ascending with undated facts last.
type RecordStore interface {
	FindCaseFile(ctx context.Context, id uuid.UUID) (*entity.CaseFile, error)
	ListDocuments(ctx context.Context, caseFileID uuid.UUID) ([]*entity.Document, error)
	ListFacts(ctx context.Context, caseFileID uuid.UUID) ([]*entity.Fact, error)
	InsertDocument(ctx context.Context, doc *entity.Document) error
}

type BlobStore interface {
	Upload(ctx context.Context, path string, r io.Reader) error
	PublicURL(path string) string
}

// Extractor asks the extraction service to analyse one document. It returns
// the number of facts written to the record store.
type Extractor interface {
	Extract(ctx context.Context, documentID uuid.UUID) (int, error)
}

type Retriever interface {
	Answer(ctx context.Context, question string, caseFileID uuid.UUID) (string, error)
}

// Notifier receives operation outcomes for a single viewing session.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})

type NotificationKind string

const (
	KindUploadSucceeded     NotificationKind = "upload_succeeded"
	KindUploadFailed        NotificationKind = "upload_failed"
	KindProcessingSucceeded NotificationKind = "processing_succeeded"
	KindProcessingFailed    NotificationKind = "processing_failed"
)

type NotificationLevel string

const (
	LevelInfo  NotificationLevel = "info"
	LevelError NotificationLevel = "error"
)

// Notification is the structured outcome of an upload or processing request.
type Notification struct {
	Kind       NotificationKind  `json:"kind"`
	Level      NotificationLevel `json:"level"`
	DocumentID *uuid.UUID        `json:"document_id,omitempty"`
	Message    string            `json:"message"`
	Facts      int               `json:"facts,omitempty"`
}
