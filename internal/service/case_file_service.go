package service

import (
	"context"
	"time"

	"dossier-be/internal/apperror"
	"dossier-be/internal/dto"
	"dossier-be/internal/entity"
	"dossier-be/internal/pkg/logger"
	"dossier-be/internal/repository/specification"
	"dossier-be/internal/repository/unitofwork"
	"dossier-be/pkg/events"

	"github.com/google/uuid"
)

type ICaseFileService interface {
	Create(ctx context.Context, req *dto.CreateCaseFileRequest) (*dto.CreateCaseFileResponse, error)
	List(ctx context.Context) ([]*dto.CaseFileResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.CaseFileResponse, error)
}

type caseFileService struct {
	uowFactory unitofwork.RepositoryFactory
	events     events.Publisher
	logger     logger.ILogger
}

func NewCaseFileService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, log logger.ILogger) ICaseFileService {
	if eventPublisher == nil {
		eventPublisher = events.Nop
	}
	return &caseFileService{
		uowFactory: uowFactory,
		events:     eventPublisher,
		logger:     log,
	}
}

func (c *caseFileService) Create(ctx context.Context, req *dto.CreateCaseFileRequest) (*dto.CreateCaseFileResponse, error) {
	category := req.Category
	if category == "" {
		category = entity.CategoryGeneral
	}

	caseFile := &entity.CaseFile{
		Id:        uuid.New(),
		Name:      req.Name,
		Category:  category,
		CreatedAt: time.Now(),
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CaseFileRepository().Create(ctx, caseFile); err != nil {
		return nil, err
	}

	event := events.New(events.CaseFileCreated, map[string]interface{}{
		"case_file_id": caseFile.Id.String(),
		"name":         caseFile.Name,
		"category":     caseFile.Category,
	})
	if err := c.events.Publish(ctx, event); err != nil {
		c.logger.Warn("CaseFile", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}

	return &dto.CreateCaseFileResponse{Id: caseFile.Id}, nil
}

func (c *caseFileService) List(ctx context.Context) ([]*dto.CaseFileResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	caseFiles, err := uow.CaseFileRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CaseFileResponse, 0, len(caseFiles))
	for _, cf := range caseFiles {
		res = append(res, toCaseFileResponse(cf))
	}
	return res, nil
}

func (c *caseFileService) Show(ctx context.Context, id uuid.UUID) (*dto.CaseFileResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	caseFile, err := uow.CaseFileRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if caseFile == nil {
		return nil, apperror.ErrCaseFileNotFound
	}
	return toCaseFileResponse(caseFile), nil
}

func toCaseFileResponse(cf *entity.CaseFile) *dto.CaseFileResponse {
	return &dto.CaseFileResponse{
		Id:        cf.Id,
		Name:      cf.Name,
		Category:  cf.Category,
		CreatedAt: cf.CreatedAt,
	}
}
