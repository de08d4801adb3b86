package service

import (
	"context"
	"testing"
	"time"

	"dossier-be/internal/apperror"
	"dossier-be/internal/dto"
	"dossier-be/internal/entity"
	"dossier-be/internal/pkg/logger"
	"dossier-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCaseFile(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     string
	}{
		{"default category", "", entity.CategoryGeneral},
		{"public procurement", entity.CategoryPublicProcurement, entity.CategoryPublicProcurement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newMemDB()
			bus := &recordingEvents{}
			svc := NewCaseFileService(db, bus, logger.NewNopLogger())

			res, err := svc.Create(context.Background(), &dto.CreateCaseFileRequest{Name: "Acme v. City", Category: tt.category})

			require.NoError(t, err)
			stored := db.caseFiles[res.Id]
			require.NotNil(t, stored)
			assert.Equal(t, "Acme v. City", stored.Name)
			assert.Equal(t, tt.want, stored.Category)
			assert.Equal(t, []string{events.CaseFileCreated}, bus.types())
		})
	}
}

func TestListCaseFilesNewestFirst(t *testing.T) {
	db := newMemDB()
	now := time.Now()
	older := &entity.CaseFile{Id: uuid.New(), Name: "older", CreatedAt: now.Add(-time.Hour)}
	newer := &entity.CaseFile{Id: uuid.New(), Name: "newer", CreatedAt: now}
	db.caseFiles[older.Id] = older
	db.caseFiles[newer.Id] = newer

	res, err := NewCaseFileService(db, nil, logger.NewNopLogger()).List(context.Background())

	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "newer", res[0].Name)
	assert.Equal(t, "older", res[1].Name)
}

func TestShowCaseFile(t *testing.T) {
	db := newMemDB()
	cf := &entity.CaseFile{Id: uuid.New(), Name: "Acme", Category: entity.CategoryGeneral}
	db.caseFiles[cf.Id] = cf
	svc := NewCaseFileService(db, nil, logger.NewNopLogger())

	res, err := svc.Show(context.Background(), cf.Id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", res.Name)

	_, err = svc.Show(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrCaseFileNotFound)
}
