package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a unique constraint rejected the write.
	ErrDuplicate = errors.New("repository: duplicate")
	// ErrConflict indicates a conditional write lost against a concurrent
	// update; the row was left unchanged.
	ErrConflict = errors.New("repository: conflict")
)
