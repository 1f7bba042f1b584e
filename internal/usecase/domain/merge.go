package domain

import (
	"context"

	"github.com/PierrickMartos/slub/internal/entities"
)

// MergePR flags the PR merged and tells the squad in the announcement thread.
func (u *Usecase) MergePR(ctx context.Context, deliveredEventID, repositoryID, prID string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !u.scope.IsInScope(entities.RepositoryIdentifier(repositoryID)) {
		return nil
	}

	id, err := entities.ParsePRIdentifier(prID)
	if err != nil {
		return err
	}

	delivered, err := u.alreadyDelivered(ctx, deliveredEventID)
	if err != nil || delivered {
		return err
	}

	pr, err := u.repo.UpdatePR(ctx, id, func(pr *entities.PullRequest) error {
		pr.MarkMerged()
		return nil
	})
	if err != nil {
		return err
	}
	if err := u.notifySquad(ctx, pr, pr.ReleaseEvents()); err != nil {
		return err
	}
	if err := u.repo.MarkEventDelivered(ctx, deliveredEventID); err != nil {
		return err
	}

	u.log.Infow("pr merged", "pr_identifier", id)
	return nil
}
