package chat

import "errors"

var (
	// ErrEmbedderRequired is returned when the orchestrator is built
	// without an embedding stage.
	ErrEmbedderRequired = errors.New("embedding stage is required")

	// ErrIndexRequired is returned when the orchestrator is built without
	// a vector index.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrGeneratorRequired is returned when the orchestrator is built
	// without an answer generator.
	ErrGeneratorRequired = errors.New("generator is required")

	// ErrEmptyMessage is returned when the user message is blank.
	ErrEmptyMessage = errors.New("message must not be empty")
)
