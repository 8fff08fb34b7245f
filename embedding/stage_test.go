package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/docpipe/ai/mock"
	"github.com/poiesic/docpipe/cache"
	"github.com/poiesic/docpipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChunks(tenant core.TenantID, n int) []core.Chunk {
	chunks := make([]core.Chunk, n)
	for i := range chunks {
		chunks[i] = core.Chunk{
			DocumentId: 42,
			Tenant:     tenant,
			Index:      i,
			Text:       fmt.Sprintf("chunk text number %d", i),
			TokenCount: 4,
		}
	}
	return chunks
}

func TestStage_EmbedChunks(t *testing.T) {
	embedder := mock.NewEmbedder()
	stage := NewStage(embedder, WithRetryBaseDelay(time.Millisecond))

	chunks := testChunks(1, 5)
	results, err := stage.EmbedChunks(context.Background(), chunks)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, res := range results {
		assert.NoError(t, res.Err)
		assert.False(t, res.Cached)
		assert.Equal(t, chunks[i], res.Chunk)
		require.NotEmpty(t, res.Vector)

		// Vectors come back unit-length.
		var mag float64
		for _, v := range res.Vector {
			mag += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(mag), 0.001)
	}
}

func TestStage_CacheHitSkipsProvider(t *testing.T) {
	c, err := cache.New[[]float32]()
	require.NoError(t, err)
	defer c.Close()

	embedder := mock.NewEmbedder()
	stage := NewStage(embedder,
		WithCache(c),
		WithModel("embeddinggemma"),
		WithRetryBaseDelay(time.Millisecond))

	chunks := testChunks(1, 3)

	first, err := stage.EmbedChunks(context.Background(), chunks)
	require.NoError(t, err)
	callsAfterFirst := embedder.CallCount()
	require.Positive(t, callsAfterFirst)
	c.Wait()

	second, err := stage.EmbedChunks(context.Background(), chunks)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, embedder.CallCount(), "second batch must be served from cache")
	for i := range second {
		assert.True(t, second[i].Cached)
		assert.Equal(t, first[i].Vector, second[i].Vector)
	}
}

func TestStage_TenantsNeverShareCacheEntries(t *testing.T) {
	c, err := cache.New[[]float32]()
	require.NoError(t, err)
	defer c.Close()

	embedder := mock.NewEmbedder()
	stage := NewStage(embedder, WithCache(c), WithRetryBaseDelay(time.Millisecond))

	_, err = stage.EmbedChunks(context.Background(), testChunks(1, 2))
	require.NoError(t, err)
	c.Wait()
	callsAfterTenantOne := embedder.CallCount()

	// Identical text under a different tenant must miss.
	results, err := stage.EmbedChunks(context.Background(), testChunks(2, 2))
	require.NoError(t, err)

	assert.Greater(t, embedder.CallCount(), callsAfterTenantOne)
	for _, res := range results {
		assert.False(t, res.Cached)
	}
}

func TestStage_RetriesTransientFailures(t *testing.T) {
	embedder := mock.NewEmbedder()
	var attempts int
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("429 too many requests")
		}
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = mock.DeterministicVector(text, 8)
		}
		return vectors, nil
	}

	stage := NewStage(embedder, WithMaxRetries(3), WithRetryBaseDelay(time.Millisecond))
	results, err := stage.EmbedChunks(context.Background(), testChunks(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	for _, res := range results {
		assert.NoError(t, res.Err)
	}
}

func TestStage_PermanentFailureNotRetried(t *testing.T) {
	embedder := mock.NewEmbedder()
	var attempts int
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		return nil, errors.New("model not found")
	}

	stage := NewStage(embedder, WithMaxRetries(3), WithRetryBaseDelay(time.Millisecond))
	results, err := stage.EmbedChunks(context.Background(), testChunks(1, 1))

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "permanent failures must not burn the retry budget")
	assert.Error(t, results[0].Err)
}

func TestStage_PartialBatchFailure(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		for _, text := range texts {
			if strings.Contains(text, "number 1") {
				return nil, errors.New("provider rejected input")
			}
		}
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = mock.DeterministicVector(text, 8)
		}
		return vectors, nil
	}

	// One chunk per sub-batch so a single poisoned chunk fails alone.
	stage := NewStage(embedder, WithSubBatchSize(1), WithRetryBaseDelay(time.Millisecond))
	results, err := stage.EmbedChunks(context.Background(), testChunks(1, 3))

	require.Error(t, err)
	assert.Equal(t, core.KindPartial, core.KindOf(err))
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
}

func TestStage_AllChunksFailed(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("connection refused")
	}

	stage := NewStage(embedder, WithMaxRetries(2), WithRetryBaseDelay(time.Millisecond))
	_, err := stage.EmbedChunks(context.Background(), testChunks(1, 2))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllChunksFailed)
}

func TestStage_SlowProviderCallTimesOut(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	stage := NewStage(embedder,
		WithMaxRetries(1),
		WithRetryBaseDelay(time.Millisecond),
		WithCallTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := stage.EmbedChunks(context.Background(), testChunks(1, 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllChunksFailed)
	assert.Less(t, time.Since(start), 2*time.Second, "a stalled provider must not hold the batch open")
}

func TestStage_EmptyBatch(t *testing.T) {
	stage := NewStage(mock.NewEmbedder())
	results, err := stage.EmbedChunks(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStage_OversizedBatchRejected(t *testing.T) {
	stage := NewStage(mock.NewEmbedder())
	_, err := stage.EmbedChunks(context.Background(), testChunks(1, DefaultBatchSize+1))
	require.Error(t, err)
	assert.Equal(t, core.KindPermanent, core.KindOf(err))
}

func TestStage_EmbedQuery(t *testing.T) {
	c, err := cache.New[[]float32]()
	require.NoError(t, err)
	defer c.Close()

	embedder := mock.NewEmbedder()
	stage := NewStage(embedder, WithCache(c), WithRetryBaseDelay(time.Millisecond))

	vec, err := stage.EmbedQuery(context.Background(), 1, "what is a force majeure clause")
	require.NoError(t, err)
	require.NotEmpty(t, vec)
	c.Wait()

	calls := embedder.CallCount()
	again, err := stage.EmbedQuery(context.Background(), 1, "what is a force majeure clause")
	require.NoError(t, err)
	assert.Equal(t, vec, again)
	assert.Equal(t, calls, embedder.CallCount())

	_, err = stage.EmbedQuery(context.Background(), 1, "")
	assert.ErrorIs(t, err, core.ErrEmptyText)
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("invalid max attempts", func(t *testing.T) {
		err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond, nil)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		var calls int
		boom := errors.New("boom")
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return boom
		}, 3, time.Millisecond, nil)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var calls int
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return errors.New("never seen")
		}, 3, time.Millisecond, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})
}

func TestNormalizeVector(t *testing.T) {
	normalized := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, normalized[0], 0.0001)
	assert.InDelta(t, 0.8, normalized[1], 0.0001)

	zero := NormalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)

	assert.Empty(t, NormalizeVector(nil))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 0.0001)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 0.0001)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 0.0001)
	assert.Zero(t, CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Zero(t, CosineSimilarity(nil, nil))
}
