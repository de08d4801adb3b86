package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrCaseFileNotFound  = errors.New("case file not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrWorkspaceNotFound = errors.New("workspace not found or expired")
	ErrInvalidTransition = errors.New("invalid document status transition")
	ErrEmptyDocument     = errors.New("empty or unreadable file")
)

// ServiceError is a business error reported by the extraction or retrieval
// service. Detail is the human-readable message from the error payload.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("service responded with status %d", e.Status)
	}
	return e.Detail
}

// Detail returns the message that should be shown to a user for err.
func Detail(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}
