// Package executor provides the shared bounded worker pool that caps
// concurrent external calls across all pipeline stages.
//
// A single Executor is injected into the OCR, embedding, classification and
// chat stages so that no caller can exceed the global concurrency budget.
// Submissions block when the pool is saturated (backpressure) and are
// rejected with ErrClosed after shutdown; in-flight tasks always drain.
package executor
