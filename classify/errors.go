package classify

import "errors"

var (
	// ErrFastGeneratorRequired is returned when the classifier is built
	// without a fast-tier generator.
	ErrFastGeneratorRequired = errors.New("fast generator is required")

	// ErrUnparsableResponse is returned when the model output could not
	// be parsed as a classification after all attempts.
	ErrUnparsableResponse = errors.New("classification response is not valid JSON")
)
