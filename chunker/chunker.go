package chunker

import (
	"strings"

	"github.com/poiesic/docpipe/core"
)

const (
	// DefaultTargetTokens is the default segment length in tokens.
	DefaultTargetTokens = 500

	// DefaultOverlapTokens is the default overlap between consecutive
	// segments (10% of the target) so semantic context is not severed
	// at a boundary.
	DefaultOverlapTokens = 50

	// minSegmentRunes is the shortest text allowed to stand as its own
	// chunk; anything shorter merges into the preceding chunk.
	minSegmentRunes = 100
)

// TokenCounter reports the token length of a piece of text. Counting is
// used for chunk metadata and context budgeting, never for boundaries,
// so swapping counters cannot change where chunks split.
type TokenCounter interface {
	Count(text string) int
}

// WordCounter counts whitespace-delimited words. It is the default counter:
// deterministic, allocation-light and offline.
type WordCounter struct{}

// Count returns the number of whitespace-separated words in text.
func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// Chunker splits extracted text into overlapping, token-bounded segments.
// It is pure and stateless: the same input text always yields the same
// boundaries, which is required for idempotent re-embedding and cache hits.
type Chunker struct {
	targetTokens  int
	overlapTokens int
	counter       TokenCounter
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithTargetTokens sets the segment length in tokens.
func WithTargetTokens(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.targetTokens = n
		}
	}
}

// WithOverlapTokens sets the overlap between consecutive segments.
func WithOverlapTokens(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlapTokens = n
		}
	}
}

// WithTokenCounter sets the counter used for chunk token metadata.
func WithTokenCounter(counter TokenCounter) Option {
	return func(c *Chunker) {
		if counter != nil {
			c.counter = counter
		}
	}
}

// New creates a Chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		targetTokens:  DefaultTargetTokens,
		overlapTokens: DefaultOverlapTokens,
		counter:       WordCounter{},
	}
	for _, opt := range opts {
		opt(c)
	}
	// Overlap must leave forward progress
	if c.overlapTokens >= c.targetTokens {
		c.overlapTokens = c.targetTokens / 4
	}
	return c
}

// Split chunks text into tenant- and document-tagged segments. Text too
// short to split yields a single chunk containing the whole input. Empty
// text yields no chunks.
func (c *Chunker) Split(tenant core.TenantID, documentID core.ID, text string) []core.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.targetTokens - c.overlapTokens
	chunks := make([]core.Chunk, 0, len(words)/step+1)

	prevStart := 0
	for start := 0; start < len(words); start += step {
		end := start + c.targetTokens
		if end > len(words) {
			end = len(words)
		}

		segment := strings.Join(words[start:end], " ")

		if len(chunks) > 0 && len([]rune(segment)) < minSegmentRunes {
			// Too short to stand alone as a retrieval unit; fold the
			// words into the previous chunk so no text is lost.
			prev := &chunks[len(chunks)-1]
			prev.Text = strings.Join(words[prevStart:end], " ")
			prev.TokenCount = c.counter.Count(prev.Text)
			if end == len(words) {
				break
			}
			continue
		}

		chunks = append(chunks, core.Chunk{
			DocumentId: documentID,
			Tenant:     tenant,
			Index:      len(chunks),
			Text:       segment,
			TokenCount: c.counter.Count(segment),
		})
		prevStart = start

		if end == len(words) {
			break
		}
	}

	return chunks
}
