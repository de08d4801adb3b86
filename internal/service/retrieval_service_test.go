package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dossier-be/internal/entity"
	"dossier-be/internal/pkg/logger"
	"dossier-be/internal/repository/contract"
	"dossier-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerGroundsPromptInChunks(t *testing.T) {
	db := newMemDB()
	db.scored = []*contract.ScoredDocumentChunk{
		{Chunk: &entity.DocumentChunk{Content: "The bid was rejected on 4 April 2024."}, Similarity: 0.91},
		{Chunk: &entity.DocumentChunk{Content: "The appeal was lodged on 12 April 2024."}, Similarity: 0.74},
	}
	model := &stubLLM{reply: "  The bid was rejected on 4 April 2024.\n"}
	embedder := &stubEmbedder{}
	svc := NewRetrievalService(db, embedder, model, logger.NewNopLogger())

	answer, err := svc.Answer(context.Background(), "When was the bid rejected?", uuid.New())

	require.NoError(t, err)
	assert.Equal(t, "The bid was rejected on 4 April 2024.", answer)
	assert.Equal(t, []string{embedding.TaskRetrievalQuery}, embedder.tasks)
	require.Len(t, model.history, 2)
	assert.Equal(t, fmt.Sprintf(retrievalPromptTemplate,
		"The bid was rejected on 4 April 2024."+contextSeparator+"The appeal was lodged on 12 April 2024."),
		model.history[0].Content)
	assert.Equal(t, "When was the bid rejected?", model.history[1].Content)
}

func TestAnswerWithoutContext(t *testing.T) {
	model := &stubLLM{reply: "I cannot find this information in the documents."}
	svc := NewRetrievalService(newMemDB(), &stubEmbedder{}, model, logger.NewNopLogger())

	_, err := svc.Answer(context.Background(), "Who is the judge?", uuid.New())

	require.NoError(t, err)
	assert.Contains(t, model.history[0].Content, noContextFound)
}

func TestAnswerErrors(t *testing.T) {
	tests := []struct {
		name     string
		embedErr error
		search   error
		llmErr   error
	}{
		{"embedding", errors.New("quota"), nil, nil},
		{"search", nil, errors.New("db down"), nil},
		{"model", nil, nil, errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newMemDB()
			db.failSearch = tt.search
			svc := NewRetrievalService(db, &stubEmbedder{err: tt.embedErr}, &stubLLM{err: tt.llmErr}, logger.NewNopLogger())

			_, err := svc.Answer(context.Background(), "q", uuid.New())

			assert.Error(t, err)
		})
	}
}
