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


package index

import (
	"context"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/storage"
)

const (
	// DefaultMinSimilarity filters out matches below this cosine score.
	DefaultMinSimilarity = 0.60
)

// Backend runs functions inside BadgerDB transactions.
// Satisfied by the storage/badger backend.
type Backend interface {
	WithTx(fn func(tx *badger.Txn) error, isWrite bool) error
}

// Store is the tenant-partitioned vector index. Every entry lives under a
// key that starts with its tenant id, and every query iterates only its
// own tenant's partition. Reads additionally verify the tenant recorded in
// the entry body; a mismatch means the partition itself is corrupt and is
// surfaced as an integrity fault, never as a search result.
type Store struct {
	backend       Backend
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMinSimilarity sets the similarity floor for query results.
func WithMinSimilarity(min float32) Option {
	return func(s *Store) {
		if min > 0 {
			s.minSimilarity = min
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a vector index on top of a badger backend.
func NewStore(backend Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}

	s := &Store{
		backend:       backend,
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "index")
	return s, nil
}

// Upsert stores or replaces one embedded chunk.
func (s *Store) Upsert(ctx context.Context, entry core.VectorEntry) error {
	return s.UpsertBatch(ctx, []core.VectorEntry{entry})
}

// UpsertBatch stores a set of embedded chunks in one transaction.
func (s *Store) UpsertBatch(ctx context.Context, entries []core.VectorEntry) error {
	const op = "index.UpsertBatch"

	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		if entries[i].Tenant == 0 {
			return core.Permanent(op, core.ErrMissingTenant)
		}
		if len(entries[i].Vector) == 0 {
			return core.Permanent(op, ErrEmptyVector)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for i := range entries {
			entry := &entries[i]
			key := makeVectorKey(entry.Tenant, entry.DocumentId, entry.ChunkIndex)
			if err := tx.Set(key, storage.MarshalVectorEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query returns up to limit entries from the tenant's partition scoring at
// or above the similarity floor, best first. Equal scores rank the newer
// document first. The query vector must be unit-normalized.
func (s *Store) Query(ctx context.Context, tenant core.TenantID, vector []float32, limit int) ([]core.VectorMatch, error) {
	const op = "index.Query"

	if tenant == 0 {
		return nil, core.Permanent(op, core.ErrMissingTenant)
	}
	if len(vector) == 0 {
		return nil, core.Permanent(op, ErrEmptyVector)
	}
	if limit <= 0 {
		return nil, nil
	}

	var matches []core.VectorMatch
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantPrefix(tenant)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var entry *core.VectorEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalVectorEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil {
				continue
			}

			// A foreign entry under this tenant's prefix means the
			// partition is corrupt. Abort, never return it.
			if entry.Tenant != tenant {
				return core.Integrityf(op,
					"entry for tenant %d found in partition of tenant %d (document %d chunk %d)",
					entry.Tenant, tenant, entry.DocumentId, entry.ChunkIndex)
			}

			// Dot product equals cosine similarity for normalized vectors.
			similarity := dotProduct(vector, entry.Vector)
			if similarity >= s.minSimilarity {
				matches = append(matches, core.VectorMatch{
					DocumentId:   entry.DocumentId,
					ChunkIndex:   entry.ChunkIndex,
					Score:        similarity,
					DocCreatedAt: entry.DocCreatedAt,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b core.VectorMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		// Tie: prefer the more recent document
		return b.DocCreatedAt.Compare(a.DocCreatedAt)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// DeleteDocument removes all of a document's entries from its tenant's
// partition. Used when a document is reprocessed or removed.
func (s *Store) DeleteDocument(ctx context.Context, tenant core.TenantID, documentID core.ID) error {
	const op = "index.DeleteDocument"

	if tenant == 0 {
		return core.Permanent(op, core.ErrMissingTenant)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentPrefix(tenant, documentID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
