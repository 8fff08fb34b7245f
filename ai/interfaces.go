package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// MessageRole identifies who authored a prompt message.
type MessageRole int

const (
	// RoleSystem is the instruction message.
	RoleSystem MessageRole = iota + 1
	// RoleUser is caller-supplied content.
	RoleUser
	// RoleAssistant is a prior model response replayed as history.
	RoleAssistant
)

// Message is one entry of a generation prompt.
type Message struct {
	Role MessageRole
	Text string
}

// StreamFunc receives answer fragments as the model produces them.
// Returning an error cancels the stream.
type StreamFunc func(ctx context.Context, fragment string) error

// Generator produces text completions from a prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Model returns the identifier of the underlying model. Recorded on
	// classification results so callers can tell which route produced them.
	Model() string

	// Generate produces a completion for the given messages.
	// Set jsonMode when the caller will parse the output as JSON.
	Generate(ctx context.Context, messages []Message, jsonMode bool) (string, error)

	// GenerateStream produces a completion, emitting fragments through fn as
	// they arrive. The full text is also returned once the stream ends.
	GenerateStream(ctx context.Context, messages []Message, fn StreamFunc) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. The fast generator serves low-stakes passes; the
// strong generator is reserved for final classifications and answers.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// FastGenerator returns the cheap/fast generation model.
	FastGenerator() Generator

	// StrongGenerator returns the higher-quality generation model.
	StrongGenerator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
