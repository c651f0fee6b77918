package services

import "errors"

// Failure taxonomy surfaced by the service layer. Handlers translate
// these to HTTP statuses; anything unclassified maps to a 500.
var (
	// ErrInvalidInput covers malformed payloads and unrecognized card types.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the referenced deck does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the authenticated user does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrPersistence means a read or write returned no usable data or an
	// explicit database error.
	ErrPersistence = errors.New("persistence failure")

	// ErrPartialWrite means the multiple-choice parent row was saved but
	// the choice insert failed, leaving an orphaned parent behind.
	ErrPartialWrite = errors.New("partial write")
)
