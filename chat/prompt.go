package chat

import (
	"fmt"
	"strings"

	"github.com/poiesic/docpipe/core"
)

const groundedSystemPrompt = `You are a legal document assistant. Answer the user's question using ONLY the document excerpts provided below.

Rules:
- Base every statement on the excerpts. If the excerpts do not contain the answer, say so plainly.
- Reference excerpts by their bracketed number, e.g. "the notice period is 30 days [2]".
- Answer in the language of the question.
- Be concise and precise; quote exact wording for legally significant phrases.

Document excerpts:

%s`

const ungroundedSystemPrompt = `You are a legal document assistant. No relevant document excerpts were found for the user's question.

Rules:
- Tell the user that their documents contain nothing relevant to the question before anything else.
- You may offer general orientation, but clearly mark it as not based on their documents.
- Answer in the language of the question.`

// buildContext renders retrieved chunks as numbered excerpts, in rank order.
func buildContext(chunks []*core.Chunk) string {
	var sb strings.Builder
	for i, chunk := range chunks {
		fmt.Fprintf(&sb, "[%d] (document %d)\n%s\n\n", i+1, chunk.DocumentId, chunk.Text)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// buildSystemPrompt selects the grounded or ungrounded variant.
func buildSystemPrompt(chunks []*core.Chunk) string {
	if len(chunks) == 0 {
		return ungroundedSystemPrompt
	}
	return fmt.Sprintf(groundedSystemPrompt, buildContext(chunks))
}
