package workspace

import (
	"context"
	"testing"
	"time"

	"dossier-be/internal/entity"
	"dossier-be/pkg/casefile/casefiletest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewBeforeRefresh(t *testing.T) {
	w := New(uuid.New(), uuid.New(), Deps{Store: casefiletest.NewStore()}, nil)

	v := w.View(time.Now(), 10*time.Minute)

	assert.False(t, v.Refreshed)
	assert.Nil(t, v.Documents)
	assert.Empty(t, v.Transcript)
}

func TestViewAppliesOverlayAndStalledFlag(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	store := casefiletest.NewStore()
	cfID := uuid.New()
	store.PutCaseFile(&entity.CaseFile{Id: cfID, Name: "Case", Category: entity.CategoryGeneral})

	stuckSince := now.Add(-time.Hour)
	stuck := &entity.Document{Id: uuid.New(), CaseFileId: cfID, Name: "stuck.pdf", Status: entity.DocumentStatusProcessing, CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: &stuckSince}
	queued := &entity.Document{Id: uuid.New(), CaseFileId: cfID, Name: "queued.pdf", Status: entity.DocumentStatusToProcess, CreatedAt: now.Add(-3 * time.Hour)}
	store.PutDocument(stuck)
	store.PutDocument(queued)

	release := make(chan struct{})
	defer close(release)
	w := New(uuid.New(), cfID, Deps{
		Store: store,
		Extractor: casefiletest.ExtractorFunc(func(ctx context.Context, id uuid.UUID) (int, error) {
			<-release
			return 0, nil
		}),
	}, nil)

	_, err := w.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, w.Tracker.RequestProcessing(context.Background(), queued.Id))

	v := w.View(now, 10*time.Minute)

	require.True(t, v.Refreshed)
	require.Len(t, v.Documents, 2)
	assert.Equal(t, stuck.Id, v.Documents[0].Document.Id)
	assert.True(t, v.Documents[0].Stalled)
	assert.Equal(t, entity.DocumentStatusProcessing, v.Documents[0].Document.Status, "stalled keeps its status")

	assert.Equal(t, entity.DocumentStatusProcessing, v.Documents[1].Document.Status)
	assert.False(t, v.Documents[1].Stalled, "optimistic processing is never stalled")
}
