package handlers_fiber

import (
	"net/http"

	"github.com/PierrickMartos/slub/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// PostSlackEvents receives the Slack Events API callbacks. A chat message
// carrying a GitHub PR link puts that PR to review; everything else is
// acknowledged and dropped.
func (h *Handler) PostSlackEvents(c *fiber.Ctx) error {
	var payload mapper.SlackEventCallback
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse{Error: errorBody{
			Code: "INVALID_PAYLOAD", Message: "invalid body",
		}})
	}

	if payload.Type == "url_verification" {
		return c.JSON(fiber.Map{"challenge": payload.Challenge})
	}
	if payload.Type != "event_callback" || payload.Event.Type != "message" {
		return c.SendStatus(http.StatusOK)
	}

	repo, number, ok := mapper.PRReferenceFromText(payload.Event.Text)
	if !ok {
		return c.SendStatus(http.StatusOK)
	}

	prID := repo + "/" + number
	messageID := mapper.MessageIdentifierFrom(payload.Event.Channel, payload.Event.TS)
	if err := h.uc.PutToReview(c.Context(), payload.EventID, repo, prID, messageID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusOK)
}
