package usecase

import (
	"context"

	"github.com/PierrickMartos/slub/internal/entities"
)

// PutToReviewInterface abstracts PR review announcements for the delivery layer.
type PutToReviewInterface interface {
	// PutToReview starts tracking a PR announced in chat, or appends the new
	// announcement message when the PR is already tracked.
	PutToReview(ctx context.Context, deliveredEventID, repositoryID, prID, messageID string) error
}

// CIStatusInterface abstracts CI verdict intake.
type CIStatusInterface interface {
	// UpdateCIStatus applies an already reconciled CI verdict to the PR. A
	// PENDING verdict is the rest state and is not re-asserted.
	UpdateCIStatus(ctx context.Context, deliveredEventID, repositoryID, prID string, verdict entities.CIVerdict) error
}

// ReviewInterface abstracts reviewer feedback intake.
type ReviewInterface interface {
	SubmitReview(ctx context.Context, deliveredEventID, repositoryID, prID, reviewState string) error
}

// MergeInterface abstracts merge event intake.
type MergeInterface interface {
	MergePR(ctx context.Context, deliveredEventID, repositoryID, prID string) error
}

// LargePRInterface abstracts PR size warning intake.
type LargePRInterface interface {
	WarnLargePR(ctx context.Context, deliveredEventID, repositoryID, prID string, additions, deletions int) error
}

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	PutToReviewInterface
	CIStatusInterface
	ReviewInterface
	MergeInterface
	LargePRInterface
}
