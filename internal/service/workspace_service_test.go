package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"dossier-be/internal/apperror"
	"dossier-be/internal/dto"
	"dossier-be/internal/entity"
	"dossier-be/internal/repository/memory"
	"dossier-be/pkg/casefile"
	"dossier-be/pkg/casefile/casefiletest"
	"dossier-be/pkg/casefile/timeline"
	"dossier-be/pkg/casefile/workspace"
	"dossier-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderSource struct {
	mu        sync.Mutex
	recorders map[uuid.UUID]*casefiletest.Recorder
}

func (s *recorderSource) Notifier(workspaceID uuid.UUID) casefile.Notifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recorders == nil {
		s.recorders = make(map[uuid.UUID]*casefiletest.Recorder)
	}
	r := &casefiletest.Recorder{}
	s.recorders[workspaceID] = r
	return r
}

func (s *recorderSource) get(workspaceID uuid.UUID) *casefiletest.Recorder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorders[workspaceID]
}

type workspaceFixture struct {
	store    *casefiletest.Store
	blobs    *casefiletest.Blobs
	notifs   *recorderSource
	bus      *recordingEvents
	repo     *memory.WorkspaceRepository
	svc      IWorkspaceService
	caseFile *entity.CaseFile
	now      time.Time
}

func newWorkspaceFixture(t *testing.T, extractor casefile.Extractor, retriever casefile.Retriever) *workspaceFixture {
	t.Helper()
	f := &workspaceFixture{
		store:    casefiletest.NewStore(),
		blobs:    casefiletest.NewBlobs(),
		notifs:   &recorderSource{},
		bus:      &recordingEvents{},
		repo:     memory.NewWorkspaceRepository(time.Hour),
		caseFile: &entity.CaseFile{Id: uuid.New(), Name: "Acme v. City", Category: entity.CategoryGeneral},
		now:      time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC),
	}
	f.store.PutCaseFile(f.caseFile)
	f.svc = NewWorkspaceService(f.repo, WorkspaceServiceConfig{
		Deps: workspace.Deps{
			Store:     f.store,
			Blobs:     f.blobs,
			Extractor: extractor,
			Retriever: retriever,
		},
		Notifiers:  f.notifs,
		Events:     f.bus,
		StaleAfter: 10 * time.Minute,
		Now:        func() time.Time { return f.now },
	})
	return f
}

func (f *workspaceFixture) open(t *testing.T) uuid.UUID {
	t.Helper()
	res, err := f.svc.Open(context.Background(), &dto.OpenWorkspaceRequest{CaseFileId: f.caseFile.Id})
	require.NoError(t, err)
	return res.Id
}

func TestOpenWorkspaceLoadsCaseFile(t *testing.T) {
	f := newWorkspaceFixture(t, nil, nil)
	id := f.open(t)

	view, err := f.svc.View(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, view.CaseFile)
	assert.Equal(t, "Acme v. City", view.CaseFile.Name)
	assert.Empty(t, view.Documents)
	assert.Empty(t, view.Timeline)
	assert.Equal(t, timeline.EmptyNotice, view.TimelineNotice)
	assert.Equal(t, 1, f.repo.Count())
}

func TestOpenUnknownCaseFile(t *testing.T) {
	f := newWorkspaceFixture(t, nil, nil)

	_, err := f.svc.Open(context.Background(), &dto.OpenWorkspaceRequest{CaseFileId: uuid.New()})

	assert.ErrorIs(t, err, apperror.ErrCaseFileNotFound)
	assert.Zero(t, f.repo.Count(), "nothing is kept")
}

func TestUnknownWorkspace(t *testing.T) {
	f := newWorkspaceFixture(t, nil, nil)
	id := uuid.New()
	ctx := context.Background()

	_, err := f.svc.View(ctx, id)
	assert.ErrorIs(t, err, apperror.ErrWorkspaceNotFound)
	_, err = f.svc.Refresh(ctx, id)
	assert.ErrorIs(t, err, apperror.ErrWorkspaceNotFound)
	_, err = f.svc.Process(ctx, id, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrWorkspaceNotFound)
	_, err = f.svc.Ask(ctx, id, "q")
	assert.ErrorIs(t, err, apperror.ErrWorkspaceNotFound)
	assert.ErrorIs(t, f.svc.Close(ctx, id), apperror.ErrWorkspaceNotFound)
}

func TestUploadThenProcess(t *testing.T) {
	extracted := make(chan uuid.UUID, 1)
	var f *workspaceFixture
	f = newWorkspaceFixture(t, casefiletest.ExtractorFunc(func(ctx context.Context, id uuid.UUID) (int, error) {
		f.store.SetStatus(id, entity.DocumentStatusProcessed)
		extracted <- id
		return 3, nil
	}), nil)
	id := f.open(t)
	ctx := context.Background()

	doc, err := f.svc.Upload(ctx, id, "notice.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "notice.pdf", doc.Name)
	assert.Equal(t, string(entity.DocumentStatusToProcess), doc.Status)
	assert.Equal(t, []string{events.DocumentUploaded}, f.bus.types())

	res, err := f.svc.Process(ctx, id, doc.Id)
	require.NoError(t, err)
	assert.True(t, res.Accepted)

	select {
	case got := <-extracted:
		assert.Equal(t, doc.Id, got)
	case <-time.After(2 * time.Second):
		t.Fatal("extractor not called")
	}

	require.Eventually(t, func() bool { return len(f.notifs.get(id).All()) == 2 }, 2*time.Second, 10*time.Millisecond)
	notes := f.notifs.get(id).All()
	assert.Equal(t, casefile.KindUploadSucceeded, notes[0].Kind)
	assert.Equal(t, casefile.KindProcessingSucceeded, notes[1].Kind)
	assert.Equal(t, "3 facts extracted from notice.pdf", notes[1].Message)

	view, err := f.svc.View(ctx, id)
	require.NoError(t, err)
	require.Len(t, view.Documents, 1)
	assert.Equal(t, string(entity.DocumentStatusProcessed), view.Documents[0].Status)

	again, err := f.svc.Process(ctx, id, doc.Id)
	require.NoError(t, err)
	assert.False(t, again.Accepted, "processed documents cannot be processed again")
}

func TestUploadFailure(t *testing.T) {
	f := newWorkspaceFixture(t, nil, nil)
	f.blobs.FailUpload = errors.New("disk full")
	id := f.open(t)

	_, err := f.svc.Upload(context.Background(), id, "notice.pdf", strings.NewReader("%PDF"))

	require.Error(t, err)
	assert.Empty(t, f.bus.types())
	notes := f.notifs.get(id).All()
	require.Len(t, notes, 1)
	assert.Equal(t, casefile.KindUploadFailed, notes[0].Kind)
}

func TestAskAppendsToTranscript(t *testing.T) {
	f := newWorkspaceFixture(t, nil, casefiletest.RetrieverFunc(func(ctx context.Context, q string, caseFileID uuid.UUID) (string, error) {
		return "Twelve days.", nil
	}))
	id := f.open(t)

	res, err := f.svc.Ask(context.Background(), id, "How long was the standstill period?")
	require.NoError(t, err)
	assert.True(t, res.Accepted)

	blank, err := f.svc.Ask(context.Background(), id, "  ")
	require.NoError(t, err)
	assert.False(t, blank.Accepted)

	view, err := f.svc.View(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []dto.ChatMessageResponse{
		{Role: "user", Content: "How long was the standstill period?"},
		{Role: "assistant", Content: "Twelve days."},
	}, view.Transcript)
	assert.False(t, view.Busy)
}

func TestViewFormatsFactsAndTimeline(t *testing.T) {
	f := newWorkspaceFixture(t, nil, nil)
	date := time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC)
	desc := "Bid rejected"
	f.store.AddFacts(&entity.Fact{Id: uuid.New(), CaseFileId: f.caseFile.Id, EventDate: &date, Description: &desc})
	id := f.open(t)

	view, err := f.svc.View(context.Background(), id)

	require.NoError(t, err)
	require.Len(t, view.Facts, 1)
	assert.Equal(t, "2024-04-04", *view.Facts[0].EventDate)
	require.Len(t, view.Timeline, 1)
	assert.Equal(t, "Bid rejected", view.Timeline[0].Body)
	assert.Empty(t, view.TimelineNotice)
}

func TestCloseWorkspace(t *testing.T) {
	f := newWorkspaceFixture(t, nil, nil)
	id := f.open(t)

	require.NoError(t, f.svc.Close(context.Background(), id))

	_, err := f.svc.View(context.Background(), id)
	assert.ErrorIs(t, err, apperror.ErrWorkspaceNotFound)
}
