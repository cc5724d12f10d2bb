package services

import "errors"

var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotAvailable means the entity exists but cannot be purchased
	// right now (inactive, sold out, out of stock).
	ErrNotAvailable = errors.New("not available for payment")
)
