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


package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &DocumentRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources of its own.
func (r *DocumentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutDocument inserts or replaces a document.
func (r *DocumentRepository) PutDocument(ctx context.Context, document *core.Document) error {
	if err := core.ValidateDocument(document); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = now
	}
	document.UpdatedAt = now

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(document.Tenant, document.Id)
		if err := tx.Set(key, storage.MarshalDocument(document)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a document by tenant and ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, tenant core.TenantID, id core.ID) (*core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var document *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(tenant, id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			document, err = storage.UnmarshalDocument(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return document, nil
}

// UpdateDocumentStatus advances a document's processing status, enforcing
// the pipeline state machine.
func (r *DocumentRepository) UpdateDocumentStatus(ctx context.Context, tenant core.TenantID, id core.ID, next core.DocumentStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(tenant, id)
		item, err := tx.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		var document *core.Document
		err = item.Value(func(val []byte) error {
			var err error
			document, err = storage.UnmarshalDocument(val)
			return err
		})
		if err != nil {
			return err
		}

		if !document.Status.CanTransition(next) {
			return fmt.Errorf("%w: %s to %s", core.ErrInvalidTransition, document.Status, next)
		}

		document.Status = next
		document.UpdatedAt = time.Now()
		if err := tx.Set(key, storage.MarshalDocument(document)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListDocuments retrieves all documents owned by a tenant, newest first.
func (r *DocumentRepository) ListDocuments(ctx context.Context, tenant core.TenantID) ([]*core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var documents []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentTenantPrefix(tenant)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var document *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				document, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			documents = append(documents, document)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(documents, func(a, b *core.Document) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return documents, nil
}
