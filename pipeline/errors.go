package pipeline

import "errors"

var (
	// ErrDocumentsRequired is returned when no document repository is configured.
	ErrDocumentsRequired = errors.New("document repository is required")

	// ErrChunksRequired is returned when no chunk repository is configured.
	ErrChunksRequired = errors.New("chunk repository is required")

	// ErrFileStoreRequired is returned when no file store is configured.
	ErrFileStoreRequired = errors.New("file store is required")

	// ErrOCRStageRequired is returned when no extraction stage is configured.
	ErrOCRStageRequired = errors.New("ocr stage is required")

	// ErrEmbedderRequired is returned when no embedding stage is configured.
	ErrEmbedderRequired = errors.New("embedding stage is required")

	// ErrIndexRequired is returned when no vector index is configured.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrNoChunks is returned when extracted text yields nothing to index.
	ErrNoChunks = errors.New("document produced no chunks")
)
