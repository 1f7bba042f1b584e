package handlers_fiber

import (
	"errors"
	"net/http"

	"github.com/PierrickMartos/slub/internal/entities"

	"github.com/gofiber/fiber/v2"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := "INTERNAL"
	msg := "internal error"

	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = "INVALID_PAYLOAD"
		msg = err.Error()
	case errors.Is(err, entities.ErrPRNotFound):
		status = http.StatusNotFound
		code = "PR_NOT_FOUND"
		msg = "pr is not tracked"
	case errors.Is(err, entities.ErrPRExists):
		status = http.StatusConflict
		code = "PR_EXISTS"
		msg = "pr is already tracked"
	case errors.Is(err, entities.ErrMalformedPR):
		code = "MALFORMED_PR"
		msg = "stored pr record is malformed"
	default:
		msg = err.Error()
	}

	return c.Status(status).JSON(errorResponse{Error: errorBody{Code: code, Message: msg}})
}
