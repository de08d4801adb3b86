package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"dossier-be/internal/dto"
	"dossier-be/internal/entity"
	"dossier-be/internal/pkg/logger"
	"dossier-be/internal/repository/specification"
	"dossier-be/internal/repository/unitofwork"
	"dossier-be/pkg/embedding"
	"dossier-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage acks messages that can never succeed and nacks the ones
// that failed on a transient error so they are redelivered.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.DocumentId == uuid.Nil {
		cs.logger.Warn("Consumer", "Dropping malformed embed message", map[string]interface{}{"message_id": msg.UUID})
		msg.Ack()
		return
	}
	fields := map[string]interface{}{"document_id": payload.DocumentId.String()}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("Consumer", "Failed to load document", withError(fields, err))
		msg.Nack()
		return
	}
	if doc == nil {
		cs.logger.Warn("Consumer", "Document no longer exists", fields)
		msg.Ack()
		return
	}
	if strings.TrimSpace(doc.RawText) == "" {
		cs.logger.Warn("Consumer", "Document has no text to index", fields)
		msg.Ack()
		return
	}

	chunks := utils.SplitText(doc.RawText, chunkSize, chunkOverlap)
	newChunks := make([]*entity.DocumentChunk, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			cs.logger.Error("Consumer", "Failed to embed chunk", withError(map[string]interface{}{
				"document_id": doc.Id.String(),
				"chunk":       i,
			}, err))
			msg.Nack()
			return
		}
		newChunks = append(newChunks, &entity.DocumentChunk{
			Id:             uuid.New(),
			DocumentId:     doc.Id,
			CaseFileId:     doc.CaseFileId,
			ChunkIndex:     i,
			Content:        chunk,
			EmbeddingValue: vec,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("Consumer", "Failed to begin transaction", withError(fields, err))
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		cs.logger.Error("Consumer", "Failed to delete old chunks", withError(fields, err))
		msg.Nack()
		return
	}
	if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
		cs.logger.Error("Consumer", "Failed to store chunks", withError(fields, err))
		msg.Nack()
		return
	}
	if err := uow.Commit(); err != nil {
		cs.logger.Error("Consumer", "Failed to commit chunks", withError(fields, err))
		msg.Nack()
		return
	}

	cs.logger.Info("Consumer", "Document indexed", map[string]interface{}{
		"document_id": doc.Id.String(),
		"chunks":      len(newChunks),
	})
	msg.Ack()
}

// withError copies fields and adds err under "error".
func withError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
