package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &ChunkRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources of its own.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutChunks stores all chunks of one document, replacing any previous set.
// All chunks must belong to the same tenant and document.
func (r *ChunkRepository) PutChunks(ctx context.Context, chunks []core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	for i := range chunks {
		if err := core.ValidateChunk(&chunks[i]); err != nil {
			return err
		}
		if chunks[i].Tenant != chunks[0].Tenant || chunks[i].DocumentId != chunks[0].DocumentId {
			return storage.ErrInvalidQuery
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tenant, documentID := chunks[0].Tenant, chunks[0].DocumentId
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteByPrefix(tx, makeChunkDocumentPrefix(tenant, documentID)); err != nil {
			return err
		}
		for i := range chunks {
			chunk := &chunks[i]
			key := makeChunkKey(chunk.Tenant, chunk.DocumentId, chunk.Index)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk by document and index.
func (r *ChunkRepository) GetChunk(ctx context.Context, tenant core.TenantID, documentID core.ID, index int) (*core.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var chunk *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeChunkKey(tenant, documentID, index))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			chunk, err = storage.UnmarshalChunk(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// GetDocumentChunks retrieves all chunks of a document in index order.
// Keys sort by chunk index, so iteration order is already correct.
func (r *ChunkRepository) GetDocumentChunks(ctx context.Context, tenant core.TenantID, documentID core.ID) ([]*core.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var chunks []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkDocumentPrefix(tenant, documentID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			chunks = append(chunks, chunk)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// DeleteDocumentChunks removes all chunks of a document.
func (r *ChunkRepository) DeleteDocumentChunks(ctx context.Context, tenant core.TenantID, documentID core.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteByPrefix(tx, makeChunkDocumentPrefix(tenant, documentID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// deleteByPrefix removes every key under prefix within tx.
func deleteByPrefix(tx *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
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
	return nil
}
