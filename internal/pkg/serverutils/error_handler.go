package serverutils

import (
	"errors"
	"net/http"

	"dossier-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error returned by a handler to its HTTP status.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var validationErr *ValidationError
	var serviceErr *apperror.ServiceError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.As(err, &serviceErr):
		if serviceErr.Status >= 400 {
			return serviceErr.Status
		}
		return fiber.StatusBadGateway
	case errors.Is(err, apperror.ErrCaseFileNotFound),
		errors.Is(err, apperror.ErrDocumentNotFound),
		errors.Is(err, apperror.ErrWorkspaceNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, apperror.ErrEmptyDocument):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware renders handler errors in the response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		message := apperror.Detail(err)
		if code == fiber.StatusInternalServerError && message == "" {
			message = http.StatusText(code)
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
