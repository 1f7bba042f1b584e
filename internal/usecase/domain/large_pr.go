package domain

import (
	"context"
	"fmt"

	"github.com/PierrickMartos/slub/internal/entities"
)

// WarnLargePR compares the PR size against the configured limit. Exceeding
// the limit with either additions or deletions flags the PR as too large;
// the warning goes to the log, not to the chat.
func (u *Usecase) WarnLargePR(ctx context.Context, deliveredEventID, repositoryID, prID string, additions, deletions int) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !u.scope.IsInScope(entities.RepositoryIdentifier(repositoryID)) {
		return nil
	}

	id, err := entities.ParsePRIdentifier(prID)
	if err != nil {
		return err
	}
	if additions < 0 || deletions < 0 {
		return fmt.Errorf("%w: negative line counts", entities.ErrInvalidArgument)
	}

	delivered, err := u.alreadyDelivered(ctx, deliveredEventID)
	if err != nil || delivered {
		return err
	}

	tooLarge := additions > u.largePRLimit || deletions > u.largePRLimit
	pr, err := u.repo.UpdatePR(ctx, id, func(pr *entities.PullRequest) error {
		if tooLarge {
			pr.MarkTooLarge()
		} else {
			pr.MarkSmall()
		}
		return nil
	})
	if err != nil {
		return err
	}
	pr.ReleaseEvents()

	if err := u.repo.MarkEventDelivered(ctx, deliveredEventID); err != nil {
		return err
	}

	if tooLarge {
		u.log.Infow("pr is too large",
			"pr_identifier", id,
			"additions", additions,
			"deletions", deletions,
			"limit", u.largePRLimit,
		)
	}
	return nil
}
