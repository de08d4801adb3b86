package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"dossier-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"case file", fmt.Errorf("open: %w", apperror.ErrCaseFileNotFound), 404},
		{"document", apperror.ErrDocumentNotFound, 404},
		{"workspace", apperror.ErrWorkspaceNotFound, 404},
		{"transition", fmt.Errorf("document is processed: %w", apperror.ErrInvalidTransition), 409},
		{"empty", apperror.ErrEmptyDocument, 422},
		{"validation", &ValidationError{Fields: []string{"Name failed on 'required'"}}, 400},
		{"fiber", fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), 413},
		{"service", &apperror.ServiceError{Status: 503, Detail: "busy"}, 503},
		{"other", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestErrorHandlerMiddlewareEnvelope(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/missing", func(c *fiber.Ctx) error { return apperror.ErrWorkspaceNotFound })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.JSON(SuccessResponse("fine", 1)) })

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var body BaseResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, 404, body.Code)
	assert.Equal(t, apperror.ErrWorkspaceNotFound.Error(), body.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		Name string `validate:"required"`
	}

	assert.NoError(t, ValidateRequest(request{Name: "x"}))

	err := ValidateRequest(request{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Name failed on 'required'"}, verr.Fields)
}
