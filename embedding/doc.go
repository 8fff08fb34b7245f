// Package embedding generates normalized embedding vectors for document
// chunks and retrieval queries.
//
// The stage is cache-first: chunk text already embedded for the same
// tenant and model is served from the shared cache without touching the
// provider. Misses are grouped into sub-batches, embedded in parallel on
// the worker pool, and retried with exponential backoff when the provider
// fails transiently. Failures are reported per chunk so one bad sub-batch
// never discards the rest of the batch.
package embedding
