package repository

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrEntryNotFound is returned when the aggregate exists but a nested entry does not.
	ErrEntryNotFound = errors.New("entry not found")
	ErrAlreadyLiked  = errors.New("already liked")
	ErrNotLiked      = errors.New("not liked")
	ErrNotOwner      = errors.New("not owner")
)
