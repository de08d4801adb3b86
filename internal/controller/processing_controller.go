package controller

import (
	"strings"

	"dossier-be/internal/apperror"
	"dossier-be/internal/dto"
	"dossier-be/internal/pkg/serverutils"
	"dossier-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IProcessingController serves the extraction and retrieval endpoints. They
// answer in their own raw shapes, {"detail": ...} on error, so a remote
// deployment of this server can back the workspace HTTP clients.
type IProcessingController interface {
	RegisterRoutes(r fiber.Router)
	ProcessDocument(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
}

type processingController struct {
	extraction service.IExtractionService
	retrieval  service.IRetrievalService
}

func NewProcessingController(extraction service.IExtractionService, retrieval service.IRetrievalService) IProcessingController {
	return &processingController{extraction: extraction, retrieval: retrieval}
}

func (c *processingController) RegisterRoutes(r fiber.Router) {
	r.Post("/process_document", c.ProcessDocument)
	r.Post("/chat", c.Chat)
}

func detail(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(dto.DetailResponse{Detail: message})
}

func (c *processingController) ProcessDocument(ctx *fiber.Ctx) error {
	var req dto.ProcessDocumentRequest
	if err := ctx.BodyParser(&req); err != nil || strings.TrimSpace(req.DocumentId) == "" {
		return detail(ctx, fiber.StatusBadRequest, "document_id is missing")
	}
	documentID, err := uuid.Parse(req.DocumentId)
	if err != nil {
		return detail(ctx, fiber.StatusBadRequest, "document_id is not a valid id")
	}

	count, err := c.extraction.Extract(ctx.UserContext(), documentID)
	if err != nil {
		status := serverutils.StatusFor(err)
		if status == fiber.StatusInternalServerError {
			return detail(ctx, status, "extraction failed: "+apperror.Detail(err))
		}
		return detail(ctx, status, apperror.Detail(err))
	}

	return ctx.JSON(dto.ProcessDocumentResponse{Status: "success", FactsExtracted: count})
}

func (c *processingController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil || strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.CaseFileId) == "" {
		return detail(ctx, fiber.StatusBadRequest, "question or dossier_id is missing")
	}
	caseFileID, err := uuid.Parse(req.CaseFileId)
	if err != nil {
		return detail(ctx, fiber.StatusBadRequest, "dossier_id is not a valid id")
	}

	answer, err := c.retrieval.Answer(ctx.UserContext(), req.Question, caseFileID)
	if err != nil {
		return detail(ctx, fiber.StatusInternalServerError, "chat failed: "+apperror.Detail(err))
	}

	return ctx.JSON(dto.ChatResponse{Answer: answer})
}
