package repository

import "errors"

// Sentinel kinds for state store errors.
var (
	ErrNotFound    = errors.New("user not found")
	ErrUnavailable = errors.New("storage unavailable")
)
