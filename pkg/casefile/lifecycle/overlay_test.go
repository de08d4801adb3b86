package lifecycle

import (
	"testing"
	"time"

	"dossier-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	a := &entity.Document{Id: uuid.New(), Status: entity.DocumentStatusToProcess}
	b := &entity.Document{Id: uuid.New(), Status: entity.DocumentStatusProcessed}
	docs := []*entity.Document{a, b}

	merged := Merge(docs, Overlay{a.Id: {Status: entity.DocumentStatusProcessing, Generation: 1}})

	assert.Equal(t, entity.DocumentStatusProcessing, merged[0].Status)
	assert.Same(t, b, merged[1])
	assert.Equal(t, entity.DocumentStatusToProcess, a.Status, "input is not mutated")
}

func TestMergeEmptyOverlay(t *testing.T) {
	docs := []*entity.Document{{Id: uuid.New()}}
	assert.Equal(t, docs, Merge(docs, nil))
}

func TestPrune(t *testing.T) {
	old := uuid.New()
	during := uuid.New()
	overlay := Overlay{
		old:    {Status: entity.DocumentStatusProcessing, Generation: 3},
		during: {Status: entity.DocumentStatusProcessing, Generation: 4},
	}

	pruned := Prune(overlay, 4)

	assert.NotContains(t, pruned, old)
	assert.Contains(t, pruned, during)
	assert.Len(t, overlay, 2, "input is not mutated")
}

func TestStalled(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	updated := now.Add(-11 * time.Minute)
	recent := now.Add(-time.Minute)

	tests := []struct {
		name  string
		doc   entity.Document
		after time.Duration
		want  bool
	}{
		{"processing past threshold", entity.Document{Status: entity.DocumentStatusProcessing, UpdatedAt: &updated}, 10 * time.Minute, true},
		{"processing within threshold", entity.Document{Status: entity.DocumentStatusProcessing, UpdatedAt: &recent}, 10 * time.Minute, false},
		{"falls back to created_at", entity.Document{Status: entity.DocumentStatusProcessing, CreatedAt: updated}, 10 * time.Minute, true},
		{"other status", entity.Document{Status: entity.DocumentStatusToProcess, UpdatedAt: &updated}, 10 * time.Minute, false},
		{"disabled", entity.Document{Status: entity.DocumentStatusProcessing, UpdatedAt: &updated}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stalled(&tt.doc, now, tt.after))
		})
	}
}
