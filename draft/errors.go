package draft

import "errors"

var (
	// ErrGeneratorRequired is returned when the drafter is built without
	// a generator.
	ErrGeneratorRequired = errors.New("generator is required")

	// ErrEmptyTemplate is returned when a template request carries no
	// template text.
	ErrEmptyTemplate = errors.New("template text must not be empty")

	// ErrEmptyPrompt is returned when a prompt request carries no
	// instructions.
	ErrEmptyPrompt = errors.New("prompt must not be empty")

	// ErrEmptyDraft is returned when the model produces no document text.
	ErrEmptyDraft = errors.New("model returned an empty draft")
)
