package service

import (
	"context"

	"dossier-be/internal/pkg/logger"
	"dossier-be/pkg/events"
	pktNats "dossier-be/pkg/nats"
)

const (
	activitySubject = "events.>"
	activityDurable = "dossier-activity"
)

// EventSubscriber is the part of the NATS subscriber the activity log needs.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject string, durableName string, handler pktNats.EventHandler) error
}

// ActivityService writes every domain event to the activity log so there is
// one audit trail of case files, uploads and extraction outcomes.
type ActivityService struct {
	subscriber EventSubscriber
	logger     logger.ILogger
}

func NewActivityService(sub EventSubscriber, log logger.ILogger) *ActivityService {
	return &ActivityService{
		subscriber: sub,
		logger:     log,
	}
}

func (s *ActivityService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, activitySubject, activityDurable, s.handleEvent); err != nil {
		s.logger.Error("Activity", "Failed to start activity subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("Activity", "Activity log listening to "+activitySubject, nil)
	return nil
}

func (s *ActivityService) handleEvent(ctx context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+2)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["type"] = event.EventType()
	details["occurred_at"] = event.Timestamp()

	if event.EventType() == events.DocumentFailed {
		s.logger.Warn("Activity", "Document processing failed", details)
		return nil
	}
	s.logger.Info("Activity", activityMessage(event.EventType()), details)
	return nil
}

func activityMessage(eventType string) string {
	switch eventType {
	case events.CaseFileCreated:
		return "Case file created"
	case events.DocumentUploaded:
		return "Document uploaded"
	case events.DocumentProcessed:
		return "Document processed"
	}
	return "Event received"
}
