package domain

import "errors"

var (
	// ErrUnavailable: a source dataset is missing or unreadable. Fatal at
	// startup, never retried.
	ErrUnavailable = errors.New("dataset unavailable")

	// ErrInvalidArgument: an aggregation was called with a parameter it does
	// not understand (unknown column, bad date, non-positive n).
	ErrInvalidArgument = errors.New("invalid argument")

	ErrNotFound = errors.New("not found")
)
