// Package classify runs single-document analysis through the language
// model tiers.
//
// Requests are routed fast-first: the small model answers, and only a
// hesitant answer (confidence under the escalation threshold) is rerun on
// the strong model. Callers can demand the strong tier directly. Identical
// concurrent requests for one document are coalesced into a single model
// call, and results are cached per tenant and content hash.
package classify
