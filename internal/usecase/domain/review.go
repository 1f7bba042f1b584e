package domain

import (
	"context"
	"fmt"

	"github.com/PierrickMartos/slub/internal/entities"
)

// Review states as reported by the VCS provider.
const (
	ReviewApproved         = "approved"
	ReviewChangesRequested = "changes_requested"
	ReviewCommented        = "commented"
)

// SubmitReview counts reviewer feedback on the PR. Comment-only reviews are
// acknowledged without touching the counters.
func (u *Usecase) SubmitReview(ctx context.Context, deliveredEventID, repositoryID, prID, reviewState string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !u.scope.IsInScope(entities.RepositoryIdentifier(repositoryID)) {
		return nil
	}

	id, err := entities.ParsePRIdentifier(prID)
	if err != nil {
		return err
	}
	if reviewState != ReviewApproved && reviewState != ReviewChangesRequested && reviewState != ReviewCommented {
		return fmt.Errorf("%w: unknown review state %q", entities.ErrInvalidArgument, reviewState)
	}

	delivered, err := u.alreadyDelivered(ctx, deliveredEventID)
	if err != nil || delivered {
		return err
	}

	if reviewState == ReviewCommented {
		if err := u.repo.MarkEventDelivered(ctx, deliveredEventID); err != nil {
			return err
		}
		u.log.Debugw("review comment acknowledged", "pr_identifier", id)
		return nil
	}

	pr, err := u.repo.UpdatePR(ctx, id, func(pr *entities.PullRequest) error {
		if reviewState == ReviewApproved {
			pr.Approve()
		} else {
			pr.RequestChanges()
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

	u.log.Infow("review counted", "pr_identifier", id, "review_state", reviewState)
	return nil
}
