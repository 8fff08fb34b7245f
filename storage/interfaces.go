// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"context"

	"github.com/poiesic/docpipe/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing documents. Every
// operation is tenant-scoped: a document is only visible through the tenant
// that owns it.
type DocumentRepository interface {
	Repository

	// PutDocument inserts or replaces a document.
	// Sets CreatedAt on first insert and UpdatedAt on every write.
	PutDocument(ctx context.Context, document *core.Document) error

	// GetDocument retrieves a document by tenant and ID.
	// Returns ErrNotFound if the document doesn't exist for that tenant.
	GetDocument(ctx context.Context, tenant core.TenantID, id core.ID) (*core.Document, error)

	// UpdateDocumentStatus advances a document's processing status.
	// Returns core.ErrInvalidTransition when the move is not a legal
	// pipeline transition, ErrNotFound when the document doesn't exist.
	UpdateDocumentStatus(ctx context.Context, tenant core.TenantID, id core.ID, next core.DocumentStatus) error

	// ListDocuments retrieves all documents owned by a tenant, ordered by
	// creation time descending.
	ListDocuments(ctx context.Context, tenant core.TenantID) ([]*core.Document, error)
}

// ChunkRepository stores the text chunks derived from a document. Chunks
// are written once per processing run; reprocessing replaces the set.
type ChunkRepository interface {
	Repository

	// PutChunks stores all chunks of one document, replacing any previous set.
	PutChunks(ctx context.Context, chunks []core.Chunk) error

	// GetChunk retrieves a single chunk by document and index.
	// Returns ErrNotFound if it doesn't exist.
	GetChunk(ctx context.Context, tenant core.TenantID, documentID core.ID, index int) (*core.Chunk, error)

	// GetDocumentChunks retrieves all chunks of a document in index order.
	GetDocumentChunks(ctx context.Context, tenant core.TenantID, documentID core.ID) ([]*core.Chunk, error)

	// DeleteDocumentChunks removes all chunks of a document.
	DeleteDocumentChunks(ctx context.Context, tenant core.TenantID, documentID core.ID) error
}

// ClassificationRepository stores per-document classification results.
// A document has at most one result; reclassification overwrites.
type ClassificationRepository interface {
	Repository

	// PutClassification inserts or replaces the result for a document.
	PutClassification(ctx context.Context, result *core.ClassificationResult) error

	// GetClassification retrieves the result for a document.
	// Returns ErrNotFound if the document has not been classified.
	GetClassification(ctx context.Context, tenant core.TenantID, documentID core.ID) (*core.ClassificationResult, error)
}

// ConversationRepository stores conversation turns. Turns are append-only.
type ConversationRepository interface {
	Repository

	// AppendTurn appends a turn to its conversation.
	// Sets CreatedAt if not already set.
	AppendTurn(ctx context.Context, turn *core.ConversationTurn) error

	// RecentTurns retrieves up to limit most recent turns of a conversation
	// in chronological order (oldest of the window first).
	RecentTurns(ctx context.Context, tenant core.TenantID, conversationID core.ID, limit int) ([]*core.ConversationTurn, error)
}
