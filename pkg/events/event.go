package events

import (
	"context"
	"time"
)

const (
	CaseFileCreated   = "CASE_FILE_CREATED"
	DocumentUploaded  = "DOCUMENT_UPLOADED"
	DocumentProcessed = "DOCUMENT_PROCESSED"
	DocumentFailed    = "DOCUMENT_FAILED"
)

// Event is the contract for every domain event.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Publisher sends domain events to the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// Nop is used when no bus is configured.
var Nop Publisher = nopPublisher{}
