package embedding

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrCountMismatch is returned when the provider returns a different
	// number of vectors than texts submitted.
	ErrCountMismatch = errors.New("embedding count does not match text count")

	// ErrAllChunksFailed is returned when no chunk in a batch could be
	// embedded.
	ErrAllChunksFailed = errors.New("all chunks in batch failed to embed")
)
