package entities

import "errors"

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPRNotFound signals missing PR.
	ErrPRNotFound = errors.New("pr not found")
	// ErrPRExists signals duplicate PR identifier.
	ErrPRExists = errors.New("pr exists")
	// ErrMalformedPR signals a persisted PR record missing required fields.
	ErrMalformedPR = errors.New("malformed pr record")
	// ErrNoMessageReference signals a PR without any chat message reference.
	ErrNoMessageReference = errors.New("pr has no message reference")
)
