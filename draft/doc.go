// Package draft generates legal documents on the strong model tier.
//
// Two entry points cover the two ways firms work: FromTemplate fills a
// firm template's {{placeholders}} and has the model polish the result,
// FromPrompt drafts a typed document from free-form instructions. Drafts
// are returned to the caller for review; nothing is persisted.
package draft
