package store

import "errors"

var (
	// ErrNotFound is returned when a document does not exist in its collection.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidDocument is returned when a stored body cannot be decoded as a JSON object.
	ErrInvalidDocument = errors.New("invalid document body")
)
