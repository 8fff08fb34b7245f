package ocr

import "errors"

var (
	// ErrNoEngines is returned when a fallback chain is built without engines.
	ErrNoEngines = errors.New("at least one engine is required")

	// ErrNoText is returned when no engine produced any text for a page.
	ErrNoText = errors.New("no text extracted")

	// ErrAllPagesFailed is returned when no page of a document could be read.
	ErrAllPagesFailed = errors.New("all pages failed extraction")

	// ErrNoPages is returned when a document has no pages to process.
	ErrNoPages = errors.New("document has no pages")
)
