// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"

	"github.com/PierrickMartos/slub/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// PullRequestInterface exposes PR aggregate persistence.
type PullRequestInterface interface {
	// CreatePR persists a newly tracked PR; entities.ErrPRExists on duplicate.
	CreatePR(ctx context.Context, pr *entities.PullRequest) error
	// GetPR loads a PR by identifier; entities.ErrPRNotFound when absent,
	// entities.ErrMalformedPR when the stored record is incomplete.
	GetPR(ctx context.Context, id entities.PRIdentifier) (*entities.PullRequest, error)
	// UpdatePR loads the PR under a per-identifier lock, applies mutate and
	// stores the result atomically. Concurrent updates to the same identifier
	// serialize; none is lost. Returns the mutated aggregate with its pending
	// events still attached.
	UpdatePR(ctx context.Context, id entities.PRIdentifier, mutate func(*entities.PullRequest) error) (*entities.PullRequest, error)
}

// DeliveredEventInterface exposes the webhook delivery dedup side table.
type DeliveredEventInterface interface {
	HasEventBeenDelivered(ctx context.Context, eventID string) (bool, error)
	MarkEventDelivered(ctx context.Context, eventID string) error
}
