package domain

import (
	"context"
	"fmt"

	"github.com/PierrickMartos/slub/internal/entities"
)

// UpdateCIStatus applies an already reconciled CI verdict to the PR and
// notifies the squad in the thread of the latest review announcement.
func (u *Usecase) UpdateCIStatus(ctx context.Context, deliveredEventID, repositoryID, prID string, verdict entities.CIVerdict) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !u.scope.IsInScope(entities.RepositoryIdentifier(repositoryID)) {
		return nil
	}

	id, err := entities.ParsePRIdentifier(prID)
	if err != nil {
		return err
	}
	if verdict.Status != entities.CIPending && verdict.Status != entities.CIGreenStatus && verdict.Status != entities.CIRedStatus {
		return fmt.Errorf("%w: unknown ci status %q", entities.ErrInvalidArgument, verdict.Status)
	}

	delivered, err := u.alreadyDelivered(ctx, deliveredEventID)
	if err != nil || delivered {
		return err
	}

	// PENDING is the rest state; it is never re-asserted on the aggregate.
	if verdict.Status == entities.CIPending {
		if err := u.repo.MarkEventDelivered(ctx, deliveredEventID); err != nil {
			return err
		}
		u.log.Debugw("ci still pending", "pr_identifier", id)
		return nil
	}

	pr, err := u.repo.UpdatePR(ctx, id, func(pr *entities.PullRequest) error {
		if verdict.Status == entities.CIGreenStatus {
			pr.MarkCIGreen(verdict.BuildLink)
		} else {
			pr.MarkCIRed(verdict.BuildLink)
		}
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

	u.log.Infow("squad notified of ci status", "pr_identifier", id, "ci_status", verdict.Status)
	return nil
}
