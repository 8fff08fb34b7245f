// Package chunker splits extracted document text into overlapping,
// token-bounded segments suitable for embedding and retrieval.
//
// Chunking is deterministic: identical input always produces identical
// boundaries, so re-embedding an unchanged document hits the embedding
// cache instead of the provider.
package chunker
