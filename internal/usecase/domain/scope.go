package domain

import "github.com/PierrickMartos/slub/internal/entities"

// ScopePolicy decides whether a repository is followed by the squad. Signals
// for out-of-scope repositories are silently ignored, they are not errors.
type ScopePolicy interface {
	IsInScope(repo entities.RepositoryIdentifier) bool
}

// RepositoryScope is the configuration-backed scope policy.
type RepositoryScope struct {
	repositories map[entities.RepositoryIdentifier]struct{}
}

// NewRepositoryScope builds the policy from the configured repository list.
func NewRepositoryScope(repositories []string) RepositoryScope {
	set := make(map[entities.RepositoryIdentifier]struct{}, len(repositories))
	for _, r := range repositories {
		set[entities.RepositoryIdentifier(r)] = struct{}{}
	}
	return RepositoryScope{repositories: set}
}

// IsInScope reports whether the repository is followed.
func (s RepositoryScope) IsInScope(repo entities.RepositoryIdentifier) bool {
	_, ok := s.repositories[repo]
	return ok
}
