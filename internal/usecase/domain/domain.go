// Package domain contains the intake handlers orchestrating the PR review
// lifecycle: scope check, payload validation, delivery dedup, aggregate
// mutation, persistence and squad notification.
package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/PierrickMartos/slub/internal/entities"
	"github.com/PierrickMartos/slub/internal/notifier"
	"github.com/PierrickMartos/slub/internal/repository"

	"go.uber.org/zap"
)

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx          context.Context
	log          *zap.SugaredLogger
	repo         repository.Repository
	chat         notifier.ChatClient
	scope        ScopePolicy
	timeout      time.Duration
	largePRLimit int
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	chat notifier.ChatClient,
	scope ScopePolicy,
	timeout time.Duration,
	largePRLimit int,
) *Usecase {
	return &Usecase{
		ctx:          ctx,
		log:          log,
		repo:         repo,
		chat:         chat,
		scope:        scope,
		timeout:      timeout,
		largePRLimit: largePRLimit,
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// alreadyDelivered guards every handler against webhook redelivery. Only
// identical deliveries are suppressed; distinct deliveries carrying stale
// data are applied as-is, ordering is the provider's responsibility.
func (u *Usecase) alreadyDelivered(ctx context.Context, deliveredEventID string) (bool, error) {
	if deliveredEventID == "" {
		return false, fmt.Errorf("%w: delivered event id is required", entities.ErrInvalidArgument)
	}
	delivered, err := u.repo.HasEventBeenDelivered(ctx, deliveredEventID)
	if err != nil {
		return false, err
	}
	if delivered {
		u.log.Debugw("event already delivered, skipping", "event_id", deliveredEventID)
	}
	return delivered, nil
}

const (
	messageCIGreen = ":white_check_mark: CI OK"
	messageCIRed   = ":octagonal_sign: CI Failed"
	messageMerged  = ":tada: PR merged"
)

// notifySquad posts a threaded reply for every released event a human should
// see. A failed reply propagates so the delivery is not marked applied and
// the provider's redelivery gets another chance.
func (u *Usecase) notifySquad(ctx context.Context, pr *entities.PullRequest, events []entities.Event) error {
	for _, e := range events {
		var text string
		switch ev := e.(type) {
		case entities.CIGreen:
			text = messageCIGreen
		case entities.CIRed:
			text = messageCIRed
			if ev.BuildLink != "" {
				text = fmt.Sprintf("%s %s", messageCIRed, ev.BuildLink)
			}
		case entities.PRMerged:
			text = messageMerged
		default:
			continue
		}

		lastMessage, err := pr.LatestMessageID()
		if err != nil {
			return err
		}
		if err := u.chat.ReplyInThread(ctx, lastMessage, text); err != nil {
			return fmt.Errorf("reply in thread: %w", err)
		}
	}
	return nil
}
