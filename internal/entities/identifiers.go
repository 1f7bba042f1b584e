// Package entities contains core business entities and errors.
package entities

import (
	"fmt"
	"strings"
)

// PRIdentifier uniquely identifies a pull request as "owner/repository/number".
type PRIdentifier string

// ParsePRIdentifier validates the "owner/repository/number" shape.
func ParsePRIdentifier(raw string) (PRIdentifier, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", fmt.Errorf("%w: pr identifier %q must look like owner/repository/number", ErrInvalidArgument, raw)
	}
	return PRIdentifier(raw), nil
}

// Repository returns the "owner/repository" part of the identifier.
func (i PRIdentifier) Repository() RepositoryIdentifier {
	idx := strings.LastIndex(string(i), "/")
	if idx < 0 {
		return RepositoryIdentifier(i)
	}
	return RepositoryIdentifier(i[:idx])
}

func (i PRIdentifier) String() string { return string(i) }

// RepositoryIdentifier identifies a repository as "owner/repository".
type RepositoryIdentifier string

func (r RepositoryIdentifier) String() string { return string(r) }

// MessageIdentifier references the chat message a PR was put to review with.
// It is opaque to the domain; the chat infrastructure knows how to address it.
type MessageIdentifier string

// ParseMessageIdentifier rejects empty message identifiers.
func ParseMessageIdentifier(raw string) (MessageIdentifier, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: message identifier is empty", ErrInvalidArgument)
	}
	return MessageIdentifier(raw), nil
}

func (m MessageIdentifier) String() string { return string(m) }
