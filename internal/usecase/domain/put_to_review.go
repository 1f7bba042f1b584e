package domain

import (
	"context"
	"errors"

	"github.com/PierrickMartos/slub/internal/entities"
)

// PutToReview starts tracking a PR announced in chat. The announcement
// message becomes the PR's first message reference; announcing an already
// tracked PR appends the new message instead.
func (u *Usecase) PutToReview(ctx context.Context, deliveredEventID, repositoryID, prID, messageID string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !u.scope.IsInScope(entities.RepositoryIdentifier(repositoryID)) {
		return nil
	}

	id, err := entities.ParsePRIdentifier(prID)
	if err != nil {
		return err
	}
	message, err := entities.ParseMessageIdentifier(messageID)
	if err != nil {
		return err
	}

	delivered, err := u.alreadyDelivered(ctx, deliveredEventID)
	if err != nil || delivered {
		return err
	}

	pr, err := u.repo.UpdatePR(ctx, id, func(pr *entities.PullRequest) error {
		pr.PutBackToReview(message)
		return nil
	})
	switch {
	case errors.Is(err, entities.ErrPRNotFound):
		pr = entities.NewPullRequest(id, message)
		if err := u.repo.CreatePR(ctx, pr); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	pr.ReleaseEvents()

	if err := u.repo.MarkEventDelivered(ctx, deliveredEventID); err != nil {
		return err
	}

	u.log.Infow("pr put to review", "pr_identifier", id, "message_id", message)
	return nil
}
