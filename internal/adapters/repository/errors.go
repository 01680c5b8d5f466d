package repository

import "errors"

// Sentinel kinds for analysis store errors.
var (
	ErrNotFound      = errors.New("analysis not found")
	ErrInvalidRecord = errors.New("invalid analysis record")
)
