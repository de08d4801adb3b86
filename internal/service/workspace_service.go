package service

import (
	"context"
	"io"
	"time"

	"dossier-be/internal/apperror"
	"dossier-be/internal/dto"
	"dossier-be/internal/entity"
	"dossier-be/internal/pkg/logger"
	"dossier-be/internal/repository/memory"
	"dossier-be/pkg/casefile"
	"dossier-be/pkg/casefile/timeline"
	"dossier-be/pkg/casefile/workspace"
	"dossier-be/pkg/events"

	"github.com/google/uuid"
)

// NotifierSource hands out the notification sink of one workspace.
type NotifierSource interface {
	Notifier(workspaceID uuid.UUID) casefile.Notifier
}

type IWorkspaceService interface {
	Open(ctx context.Context, req *dto.OpenWorkspaceRequest) (*dto.OpenWorkspaceResponse, error)
	View(ctx context.Context, id uuid.UUID) (*dto.WorkspaceViewResponse, error)
	Refresh(ctx context.Context, id uuid.UUID) (*dto.WorkspaceViewResponse, error)
	Upload(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (*dto.DocumentResponse, error)
	Process(ctx context.Context, id uuid.UUID, documentID uuid.UUID) (*dto.ProcessDocumentAccepted, error)
	Ask(ctx context.Context, id uuid.UUID, question string) (*dto.AskResponse, error)
	Close(ctx context.Context, id uuid.UUID) error
}

type WorkspaceServiceConfig struct {
	Deps       workspace.Deps
	Notifiers  NotifierSource
	Events     events.Publisher
	StaleAfter time.Duration
	Now        func() time.Time
}

type workspaceService struct {
	repo       *memory.WorkspaceRepository
	deps       workspace.Deps
	notifiers  NotifierSource
	events     events.Publisher
	staleAfter time.Duration
	now        func() time.Time
	logger     logger.ILogger
}

func NewWorkspaceService(repo *memory.WorkspaceRepository, cfg WorkspaceServiceConfig) IWorkspaceService {
	if cfg.Events == nil {
		cfg.Events = events.Nop
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Deps.Logger == nil {
		cfg.Deps.Logger = logger.NewNopLogger()
	}
	return &workspaceService{
		repo:       repo,
		deps:       cfg.Deps,
		notifiers:  cfg.Notifiers,
		events:     cfg.Events,
		staleAfter: cfg.StaleAfter,
		now:        cfg.Now,
		logger:     cfg.Deps.Logger,
	}
}

// Open creates a workspace and loads it once. A case file that cannot be
// loaded leaves nothing behind.
func (s *workspaceService) Open(ctx context.Context, req *dto.OpenWorkspaceRequest) (*dto.OpenWorkspaceResponse, error) {
	id := uuid.New()
	notifier := casefile.Discard
	if s.notifiers != nil {
		notifier = s.notifiers.Notifier(id)
	}

	ws := workspace.New(id, req.CaseFileId, s.deps, notifier)
	if _, err := ws.Refresh(ctx); err != nil {
		ws.Close()
		return nil, err
	}
	s.repo.Save(ws)

	s.logger.Info("Workspace", "Workspace opened", map[string]interface{}{
		"workspace_id": id.String(),
		"case_file_id": req.CaseFileId.String(),
	})
	return &dto.OpenWorkspaceResponse{Id: id, CaseFileId: req.CaseFileId}, nil
}

func (s *workspaceService) get(id uuid.UUID) (*workspace.Workspace, error) {
	ws, ok := s.repo.Get(id)
	if !ok {
		return nil, apperror.ErrWorkspaceNotFound
	}
	return ws, nil
}

func (s *workspaceService) View(ctx context.Context, id uuid.UUID) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return s.toView(ws), nil
}

func (s *workspaceService) Refresh(ctx context.Context, id uuid.UUID) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if _, err := ws.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.toView(ws), nil
}

func (s *workspaceService) Upload(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (*dto.DocumentResponse, error) {
	ws, err := s.get(id)
	if err != nil {
		return nil, err
	}

	doc, err := ws.Tracker.Upload(ctx, filename, r)
	if err != nil {
		return nil, err
	}

	event := events.New(events.DocumentUploaded, map[string]interface{}{
		"document_id":  doc.Id.String(),
		"case_file_id": doc.CaseFileId.String(),
		"name":         doc.Name,
	})
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Workspace", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}

	res := toDocumentResponse(doc, false)
	return &res, nil
}

// Process never fails for a document that is unknown or not ToProcess; the
// request is just not accepted.
func (s *workspaceService) Process(ctx context.Context, id uuid.UUID, documentID uuid.UUID) (*dto.ProcessDocumentAccepted, error) {
	ws, err := s.get(id)
	if err != nil {
		return nil, err
	}
	accepted := ws.Tracker.RequestProcessing(ctx, documentID)
	return &dto.ProcessDocumentAccepted{DocumentId: documentID, Accepted: accepted}, nil
}

// Ask blocks until the answer (or the error) is in the transcript. A
// question sent while another is pending is dropped.
func (s *workspaceService) Ask(ctx context.Context, id uuid.UUID, question string) (*dto.AskResponse, error) {
	ws, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return &dto.AskResponse{Accepted: ws.Conversation.Ask(ctx, question)}, nil
}

func (s *workspaceService) Close(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	s.repo.Delete(id)
	s.logger.Info("Workspace", "Workspace closed", map[string]interface{}{"workspace_id": id.String()})
	return nil
}

func (s *workspaceService) toView(ws *workspace.Workspace) *dto.WorkspaceViewResponse {
	v := ws.View(s.now(), s.staleAfter)

	res := &dto.WorkspaceViewResponse{
		Id:         ws.ID,
		CaseFileId: ws.CaseFileID,
		Documents:  make([]dto.DocumentResponse, 0, len(v.Documents)),
		Facts:      make([]dto.FactResponse, 0, len(v.Facts)),
		Timeline:   make([]dto.TimelineEntryResponse, 0, len(v.Timeline)),
		Transcript: make([]dto.ChatMessageResponse, 0, len(v.Transcript)),
		Busy:       v.Busy,
		Input:      v.Input,
	}
	if v.CaseFile != nil {
		res.CaseFile = toCaseFileResponse(v.CaseFile)
	}
	for _, d := range v.Documents {
		res.Documents = append(res.Documents, toDocumentResponse(d.Document, d.Stalled))
	}
	for _, f := range v.Facts {
		res.Facts = append(res.Facts, toFactResponse(f))
	}
	for _, e := range v.Timeline {
		res.Timeline = append(res.Timeline, dto.TimelineEntryResponse{
			Title:        e.Title,
			CardTitle:    e.CardTitle,
			CardSubtitle: e.CardSubtitle,
			Body:         e.Body,
		})
	}
	if v.Refreshed && len(v.Timeline) == 0 {
		res.TimelineNotice = timeline.EmptyNotice
	}
	for _, m := range v.Transcript {
		res.Transcript = append(res.Transcript, dto.ChatMessageResponse{Role: string(m.Role), Content: m.Content})
	}
	return res
}

func toDocumentResponse(d *entity.Document, stalled bool) dto.DocumentResponse {
	return dto.DocumentResponse{
		Id:        d.Id,
		Name:      d.Name,
		FileUrl:   d.FileUrl,
		Status:    string(d.Status),
		Stalled:   stalled,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toFactResponse(f *entity.Fact) dto.FactResponse {
	res := dto.FactResponse{
		Id:          f.Id,
		DocumentId:  f.DocumentId,
		EventType:   f.EventType,
		Actors:      f.Actors,
		Description: f.Description,
	}
	if f.EventDate != nil {
		date := f.EventDate.Format(factDateLayout)
		res.EventDate = &date
	}
	return res
}
