// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"context"

	"github.com/PierrickMartos/slub/config"
	"github.com/PierrickMartos/slub/internal/entities"
	"github.com/PierrickMartos/slub/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ChecksSource supplies the raw CI check results for a commit and resolves
// which PR a commit belongs to.
type ChecksSource interface {
	GetCheckResults(ctx context.Context, repo entities.RepositoryIdentifier, ref string) ([]entities.CheckResult, error)
	FindPRNumberForCommit(ctx context.Context, repo entities.RepositoryIdentifier, sha string) (int, bool, error)
}

// Handler exposes the provider webhook endpoints over the usecase layer.
type Handler struct {
	log             *zap.SugaredLogger
	uc              usecase.InterfaceUsecase
	checks          ChecksSource
	supportedChecks map[string]struct{}
	supportedRepos  map[entities.RepositoryIdentifier]struct{}
}

// NewHandler constructs an HTTP server with service dependencies.
func NewHandler(log *zap.SugaredLogger, uc usecase.InterfaceUsecase, checks ChecksSource, cfg config.ReviewConfig) *Handler {
	supported := make(map[string]struct{}, len(cfg.SupportedCIChecks))
	for _, name := range cfg.SupportedCIChecks {
		supported[name] = struct{}{}
	}
	repos := make(map[entities.RepositoryIdentifier]struct{}, len(cfg.SupportedRepositories))
	for _, r := range cfg.SupportedRepositories {
		repos[entities.RepositoryIdentifier(r)] = struct{}{}
	}
	return &Handler{
		log:             log,
		uc:              uc,
		checks:          checks,
		supportedChecks: supported,
		supportedRepos:  repos,
	}
}

// inScope mirrors the usecase scope policy so CI events for repositories the
// squad does not follow are dropped before any provider API call is spent on
// them.
func (h *Handler) inScope(repo entities.RepositoryIdentifier) bool {
	_, ok := h.supportedRepos[repo]
	return ok
}

// Register mounts the webhook routes.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/vcs/github/webhook", h.PostGithubWebhook)
	app.Post("/chat/slack/events", h.PostSlackEvents)
}
