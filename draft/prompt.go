package draft

import (
	"fmt"
	"sort"
	"strings"
)

const templateSystemPrompt = `You are an experienced attorney polishing a legal document that was assembled from a law firm's template.

Rules:
- Keep every name, amount, date and substantive term exactly as given.
- Use precise, professional legal language in the document's own language.
- Keep the conventional structure: preamble, parties, subject, terms, signatures.
- Where the text refers to statutory deadlines or notice periods, state them explicitly.
- Prefer clear wording over legalese; remove ambiguity, never information.

Return only the finished document, without commentary.`

const promptSystemPrompt = `You are an experienced attorney. Draft a complete %s from the instructions below.

Rules:
- Use precise, professional legal language in the language of the instructions.
- Follow the conventional structure: preamble, parties, subject, terms, signatures.
- Work every supplied fact into the document; invent nothing beyond standard boilerplate.
- State applicable deadlines and notice periods explicitly.
- The first line must be the document's title.

Return only the finished document, ready for attorney review, without commentary.`

// fillTemplate substitutes {{name}} markers with their values. Markers
// without a value stay in place, visible to the polishing model and the
// reviewing attorney.
func fillTemplate(template string, placeholders map[string]string) string {
	for key, value := range placeholders {
		template = strings.ReplaceAll(template, "{{"+key+"}}", value)
	}
	return template
}

// renderFacts lists facts in a stable order so drafts are reproducible.
func renderFacts(facts map[string]string) string {
	if len(facts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(facts))
	for key := range facts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("\n\nCase facts:\n")
	for _, key := range keys {
		fmt.Fprintf(&sb, "- %s: %s\n", key, facts[key])
	}
	return strings.TrimRight(sb.String(), "\n")
}
