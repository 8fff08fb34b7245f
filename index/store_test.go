package index

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/storage"
	storagebadger "github.com/poiesic/docpipe/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *storagebadger.Backend) {
	t.Helper()
	backend, err := storagebadger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	store, err := NewStore(backend, opts...)
	require.NoError(t, err)
	return store, backend
}

func unitVector(dim, axis int) []float32 {
	v := make([]float32, dim)
	v[axis] = 1
	return v
}

func TestStore_UpsertAndQuery(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	entries := []core.VectorEntry{
		{Tenant: 1, DocumentId: 10, ChunkIndex: 0, Vector: unitVector(4, 0)},
		{Tenant: 1, DocumentId: 10, ChunkIndex: 1, Vector: unitVector(4, 1)},
		{Tenant: 1, DocumentId: 20, ChunkIndex: 0, Vector: []float32{0.9, 0.43589, 0, 0}},
	}
	require.NoError(t, store.UpsertBatch(ctx, entries))

	matches, err := store.Query(ctx, 1, unitVector(4, 0), 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Exact match first, then the partially aligned document.
	assert.Equal(t, core.ID(10), matches[0].DocumentId)
	assert.Equal(t, 0, matches[0].ChunkIndex)
	assert.InDelta(t, 1.0, matches[0].Score, 0.0001)
	assert.Equal(t, core.ID(20), matches[1].DocumentId)
}

func TestStore_SimilarityFloor(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Orthogonal vector scores 0, well under the floor.
	require.NoError(t, store.Upsert(ctx, core.VectorEntry{
		Tenant: 1, DocumentId: 1, ChunkIndex: 0, Vector: unitVector(4, 3),
	}))

	matches, err := store.Query(ctx, 1, unitVector(4, 0), 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStore_TenantPartitionIsolation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, core.VectorEntry{
		Tenant: 1, DocumentId: 1, ChunkIndex: 0, Vector: unitVector(4, 0),
	}))
	require.NoError(t, store.Upsert(ctx, core.VectorEntry{
		Tenant: 2, DocumentId: 2, ChunkIndex: 0, Vector: unitVector(4, 0),
	}))

	matches, err := store.Query(ctx, 1, unitVector(4, 0), 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, core.ID(1), matches[0].DocumentId)

	matches, err = store.Query(ctx, 2, unitVector(4, 0), 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, core.ID(2), matches[0].DocumentId)
}

func TestStore_ConcurrentTenantQueries(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for tenant := core.TenantID(1); tenant <= 4; tenant++ {
		for doc := core.ID(1); doc <= 5; doc++ {
			require.NoError(t, store.Upsert(ctx, core.VectorEntry{
				Tenant: tenant, DocumentId: doc + core.ID(tenant)*100, ChunkIndex: 0,
				Vector: unitVector(4, 0),
			}))
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 40; i++ {
		tenant := core.TenantID(i%4 + 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			matches, err := store.Query(ctx, tenant, unitVector(4, 0), 10)
			if err != nil {
				errs <- err
				return
			}
			for _, m := range matches {
				if m.DocumentId/100 != core.ID(tenant) {
					errs <- fmt.Errorf("tenant %d saw document %d", tenant, m.DocumentId)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestStore_ForgedEntryIsIntegrityFault(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	// Plant an entry whose body claims tenant 2 under tenant 1's partition,
	// bypassing the store's write path.
	forged := &core.VectorEntry{
		Tenant: 2, DocumentId: 666, ChunkIndex: 0, Vector: unitVector(4, 0),
	}
	err := backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Set(makeVectorKey(1, 666, 0), storage.MarshalVectorEntry(forged)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	_, err = store.Query(ctx, 1, unitVector(4, 0), 5)
	require.Error(t, err)
	assert.Equal(t, core.KindIntegrity, core.KindOf(err))
}

func TestStore_TieBreakPrefersNewerDocument(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	old := time.Now().Add(-24 * time.Hour)
	recent := time.Now()

	require.NoError(t, store.UpsertBatch(ctx, []core.VectorEntry{
		{Tenant: 1, DocumentId: 1, ChunkIndex: 0, Vector: unitVector(4, 0), DocCreatedAt: old},
		{Tenant: 1, DocumentId: 2, ChunkIndex: 0, Vector: unitVector(4, 0), DocCreatedAt: recent},
	}))

	matches, err := store.Query(ctx, 1, unitVector(4, 0), 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, core.ID(2), matches[0].DocumentId)
	assert.Equal(t, core.ID(1), matches[1].DocumentId)
}

func TestStore_LimitApplied(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, store.Upsert(ctx, core.VectorEntry{
			Tenant: 1, DocumentId: core.ID(i + 1), ChunkIndex: 0, Vector: unitVector(4, 0),
		}))
	}

	matches, err := store.Query(ctx, 1, unitVector(4, 0), 5)
	require.NoError(t, err)
	assert.Len(t, matches, 5)
}

func TestStore_DeleteDocument(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []core.VectorEntry{
		{Tenant: 1, DocumentId: 1, ChunkIndex: 0, Vector: unitVector(4, 0)},
		{Tenant: 1, DocumentId: 1, ChunkIndex: 1, Vector: unitVector(4, 0)},
		{Tenant: 1, DocumentId: 2, ChunkIndex: 0, Vector: unitVector(4, 0)},
	}))

	require.NoError(t, store.DeleteDocument(ctx, 1, 1))

	matches, err := store.Query(ctx, 1, unitVector(4, 0), 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, core.ID(2), matches[0].DocumentId)
}

func TestStore_Validation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, core.VectorEntry{DocumentId: 1, Vector: unitVector(4, 0)})
	assert.ErrorIs(t, err, core.ErrMissingTenant)

	err = store.Upsert(ctx, core.VectorEntry{Tenant: 1, DocumentId: 1})
	assert.ErrorIs(t, err, ErrEmptyVector)

	_, err = store.Query(ctx, 0, unitVector(4, 0), 5)
	assert.ErrorIs(t, err, core.ErrMissingTenant)

	_, err = store.Query(ctx, 1, nil, 5)
	assert.ErrorIs(t, err, ErrEmptyVector)
}
