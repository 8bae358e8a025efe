package journal

import "errors"

// Sentinel errors. Every error returned by a Journal operation wraps one of
// these; match them with errors.Is.
var (
	// ErrInvalidFormat covers malformed date/month/year keys, unknown enum
	// values, missing required fields and unparsable import documents.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrNotFound is returned when a log, habit or task index does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating a habit whose id is taken.
	ErrAlreadyExists = errors.New("already exists")
)
