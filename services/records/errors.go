package records

import "errors"

var (
	// ErrValidation means the record or items failed required-field checks.
	// No storage calls are made when it is returned.
	ErrValidation = errors.New("service record validation failed")

	// ErrNotFound means the requested service record does not exist.
	ErrNotFound = errors.New("service record not found")
)
