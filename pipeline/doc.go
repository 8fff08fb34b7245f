// Package pipeline orchestrates document processing end to end.
//
// A document moves pending -> ocr_running -> ocr_done -> embedding_running
// -> ready, with failed reachable from anywhere. Each stage boundary is a
// persisted status transition, so a crash mid-run is visible and the
// document can be retried rather than silently lost. Partial extraction
// (some pages unreadable) and partial embedding (some chunks failed) are
// tolerated; the document still becomes searchable with what succeeded.
package pipeline
