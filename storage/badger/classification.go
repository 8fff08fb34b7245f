package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/storage"
)

// ClassificationRepository implements storage.ClassificationRepository for BadgerDB.
type ClassificationRepository struct {
	backend *Backend
}

var _ storage.ClassificationRepository = (*ClassificationRepository)(nil)

// NewClassificationRepository creates a new ClassificationRepository.
func NewClassificationRepository(backend *Backend) (*ClassificationRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &ClassificationRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources of its own.
func (r *ClassificationRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ClassificationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutClassification inserts or replaces the result for a document.
func (r *ClassificationRepository) PutClassification(ctx context.Context, result *core.ClassificationResult) error {
	if result == nil || result.Tenant == 0 || result.DocumentId == 0 {
		return storage.ErrInvalidQuery
	}
	if err := core.ValidateConfidence(result.Confidence); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if result.ClassifiedAt.IsZero() {
		result.ClassifiedAt = time.Now()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeClassificationKey(result.Tenant, result.DocumentId)
		if err := tx.Set(key, storage.MarshalClassification(result)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetClassification retrieves the result for a document.
func (r *ClassificationRepository) GetClassification(ctx context.Context, tenant core.TenantID, documentID core.ID) (*core.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *core.ClassificationResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeClassificationKey(tenant, documentID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalClassification(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}
