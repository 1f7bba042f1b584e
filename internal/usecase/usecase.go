package usecase

import (
	"context"
	"time"

	"github.com/PierrickMartos/slub/internal/notifier"
	"github.com/PierrickMartos/slub/internal/repository"
	"github.com/PierrickMartos/slub/internal/usecase/domain"

	"go.uber.org/zap"
)

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	chat notifier.ChatClient,
	scope domain.ScopePolicy,
	timeout time.Duration,
	largePRLimit int,
) InterfaceUsecase {
	return domain.New(log, ctx, repo, chat, scope, timeout, largePRLimit)
}
