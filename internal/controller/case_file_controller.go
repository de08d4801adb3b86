package controller

import (
	"dossier-be/internal/dto"
	"dossier-be/internal/pkg/serverutils"
	"dossier-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICaseFileController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type caseFileController struct {
	service service.ICaseFileService
}

func NewCaseFileController(service service.ICaseFileService) ICaseFileController {
	return &caseFileController{service: service}
}

func (c *caseFileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/dossier/v1")
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
}

func (c *caseFileController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateCaseFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create case file", res))
}

func (c *caseFileController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all case files", res))
}

func (c *caseFileController) Show(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show case file", res))
}
