package handlers_fiber

import (
	"net/http"

	"github.com/PierrickMartos/slub/internal/entities"
	"github.com/PierrickMartos/slub/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// PostGithubWebhook dispatches GitHub webhook deliveries onto the intake
// handlers. The X-GitHub-Delivery header identifies the delivery for dedup;
// event kinds the squad does not care about are acknowledged and dropped.
func (h *Handler) PostGithubWebhook(c *fiber.Ctx) error {
	deliveryID := c.Get("X-GitHub-Delivery")
	if deliveryID == "" {
		return c.Status(http.StatusBadRequest).JSON(errorResponse{Error: errorBody{
			Code: "INVALID_PAYLOAD", Message: "missing X-GitHub-Delivery header",
		}})
	}

	switch c.Get("X-GitHub-Event") {
	case "pull_request":
		return h.handlePullRequestEvent(c, deliveryID)
	case "pull_request_review":
		return h.handleReviewEvent(c, deliveryID)
	case "status":
		return h.handleStatusEvent(c, deliveryID)
	case "check_run":
		return h.handleCheckRunEvent(c, deliveryID)
	default:
		return c.SendStatus(http.StatusOK)
	}
}

func (h *Handler) handlePullRequestEvent(c *fiber.Ctx, deliveryID string) error {
	var payload mapper.GithubPullRequestEvent
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse{Error: errorBody{
			Code: "INVALID_PAYLOAD", Message: "invalid body",
		}})
	}

	repo := payload.Repository.FullName
	prID := mapper.PRIdentifierFrom(repo, payload.PullRequest.Number)

	switch payload.Action {
	case "closed":
		if !payload.PullRequest.Merged {
			return c.SendStatus(http.StatusOK)
		}
		if err := h.uc.MergePR(c.Context(), deliveryID, repo, prID); err != nil {
			return writeError(c, err)
		}
	case "opened", "synchronize", "reopened":
		err := h.uc.WarnLargePR(c.Context(), deliveryID, repo, prID,
			payload.PullRequest.Additions, payload.PullRequest.Deletions)
		if err != nil {
			return writeError(c, err)
		}
	}
	return c.SendStatus(http.StatusOK)
}

func (h *Handler) handleReviewEvent(c *fiber.Ctx, deliveryID string) error {
	var payload mapper.GithubReviewEvent
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse{Error: errorBody{
			Code: "INVALID_PAYLOAD", Message: "invalid body",
		}})
	}
	if payload.Action != "submitted" {
		return c.SendStatus(http.StatusOK)
	}

	repo := payload.Repository.FullName
	prID := mapper.PRIdentifierFrom(repo, payload.PullRequest.Number)
	if err := h.uc.SubmitReview(c.Context(), deliveryID, repo, prID, payload.Review.State); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusOK)
}

func (h *Handler) handleStatusEvent(c *fiber.Ctx, deliveryID string) error {
	var payload mapper.GithubStatusEvent
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse{Error: errorBody{
			Code: "INVALID_PAYLOAD", Message: "invalid body",
		}})
	}

	repo := entities.RepositoryIdentifier(payload.Repository.FullName)
	if !h.inScope(repo) {
		return c.SendStatus(http.StatusOK)
	}
	number, ok, err := h.checks.FindPRNumberForCommit(c.Context(), repo, payload.SHA)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		// commit outside any PR, nothing to track
		return c.SendStatus(http.StatusOK)
	}
	return h.updateCIStatus(c, deliveryID, repo, number, payload.SHA)
}

func (h *Handler) handleCheckRunEvent(c *fiber.Ctx, deliveryID string) error {
	var payload mapper.GithubCheckRunEvent
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse{Error: errorBody{
			Code: "INVALID_PAYLOAD", Message: "invalid body",
		}})
	}

	repo := entities.RepositoryIdentifier(payload.Repository.FullName)
	if !h.inScope(repo) || len(payload.CheckRun.PullRequests) == 0 {
		return c.SendStatus(http.StatusOK)
	}
	return h.updateCIStatus(c, deliveryID, repo, payload.CheckRun.PullRequests[0].Number, payload.CheckRun.HeadSHA)
}

// updateCIStatus fetches every check reported for the commit, folds them
// into one verdict and hands it to the intake handler.
func (h *Handler) updateCIStatus(c *fiber.Ctx, deliveryID string, repo entities.RepositoryIdentifier, prNumber int, sha string) error {
	results, err := h.checks.GetCheckResults(c.Context(), repo, sha)
	if err != nil {
		return writeError(c, err)
	}
	verdict := entities.ReconcileCIStatus(results, h.supportedChecks)

	prID := mapper.PRIdentifierFrom(repo.String(), prNumber)
	if err := h.uc.UpdateCIStatus(c.Context(), deliveryID, repo.String(), prID, verdict); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusOK)
}
