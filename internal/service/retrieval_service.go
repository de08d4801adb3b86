package service

import (
	"context"
	"fmt"
	"strings"

	"dossier-be/internal/pkg/logger"
	"dossier-be/internal/repository/unitofwork"
	"dossier-be/pkg/casefile"
	"dossier-be/pkg/embedding"
	"dossier-be/pkg/llm"

	"github.com/google/uuid"
)

const (
	RetrievalTopK      = 5
	RetrievalThreshold = 0.5

	contextSeparator = "\n\n---\n\n"
)

// IRetrievalService answers questions grounded in one case file's indexed
// chunks. It satisfies casefile.Retriever.
type IRetrievalService interface {
	Answer(ctx context.Context, question string, caseFileID uuid.UUID) (string, error)
}

var _ casefile.Retriever = (IRetrievalService)(nil)

type retrievalService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	llm               llm.LLMProvider
	logger            logger.ILogger
}

func NewRetrievalService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IRetrievalService {
	return &retrievalService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		llm:               llmProvider,
		logger:            log,
	}
}

func (s *retrievalService) Answer(ctx context.Context, question string, caseFileID uuid.UUID) (string, error) {
	vec, err := s.embeddingProvider.Generate(ctx, question, embedding.TaskRetrievalQuery)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, vec, RetrievalTopK, caseFileID, RetrievalThreshold)
	if err != nil {
		return "", fmt.Errorf("search chunks: %w", err)
	}

	contextText := noContextFound
	if len(scored) > 0 {
		parts := make([]string, len(scored))
		for i, sc := range scored {
			parts[i] = sc.Chunk.Content
		}
		contextText = strings.Join(parts, contextSeparator)
	}

	s.logger.Info("Retrieval", "Answering question", map[string]interface{}{
		"case_file_id": caseFileID.String(),
		"chunks":       len(scored),
	})

	answer, err := s.llm.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(retrievalPromptTemplate, contextText)},
		{Role: llm.RoleUser, Content: question},
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
