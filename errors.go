package taskdebounce

import "errors"

var (
	// ErrInvalidArgument is returned by Schedule when the owner or the
	// task identity is malformed, or when a task name does not resolve
	// to a callable member of the owner.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState is returned by Schedule when the owner has
	// already been destroyed.
	ErrInvalidState = errors.New("invalid state")
)
