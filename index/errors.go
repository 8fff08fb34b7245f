package index

import "errors"

var (
	// ErrBackendRequired is returned when the store is constructed
	// without a backend.
	ErrBackendRequired = errors.New("backend is required")

	// ErrEmptyVector is returned when an entry or query carries no vector.
	ErrEmptyVector = errors.New("vector must not be empty")
)
