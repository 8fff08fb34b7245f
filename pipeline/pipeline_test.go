package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docpipe/ai/mock"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/embedding"
	"github.com/poiesic/docpipe/index"
	"github.com/poiesic/docpipe/metrics"
	"github.com/poiesic/docpipe/ocr"
	"github.com/poiesic/docpipe/storage"
	storagebadger "github.com/poiesic/docpipe/storage/badger"
)

// scanEngine extracts page images verbatim. Images starting with "bad" are
// treated as unreadable scans.
type scanEngine struct{}

func (scanEngine) Name() string { return "scan" }

func (scanEngine) Recognize(_ context.Context, image []byte) (string, float32, error) {
	if bytes.HasPrefix(image, []byte("bad")) {
		return "", 0, errors.New("unreadable scan")
	}
	return string(image), 0.9, nil
}

type memoryFileStore struct {
	pages map[core.ID][][]byte
}

func (m *memoryFileStore) GetPages(_ context.Context, _ core.TenantID, documentID core.ID) ([][]byte, error) {
	pages, ok := m.pages[documentID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return pages, nil
}

type fixture struct {
	repos    *storagebadger.Repositories
	store    *index.Store
	embedder *mock.Embedder
	files    *memoryFileStore
	registry *metrics.Registry
	pipe     *Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	store, err := index.NewStore(repos.Backend)
	require.NoError(t, err)

	embedder := mock.NewEmbedder()
	embedStage := embedding.NewStage(embedder, embedding.WithMaxRetries(1))

	ocrStage, err := ocr.NewStage(scanEngine{},
		ocr.WithRetryDelay(0),
		ocr.WithMaxPageRetries(2))
	require.NoError(t, err)

	files := &memoryFileStore{pages: make(map[core.ID][][]byte)}
	registry := metrics.NewRegistry()

	pipe, err := New(Config{
		Documents: repos.Documents,
		Chunks:    repos.Chunks,
		Files:     files,
		OCR:       ocrStage,
		Embedder:  embedStage,
		Index:     store,
		Registry:  registry,
	})
	require.NoError(t, err)

	return &fixture{
		repos:    repos,
		store:    store,
		embedder: embedder,
		files:    files,
		registry: registry,
		pipe:     pipe,
	}
}

// seed uploads a pending document whose pages are the given strings.
func (f *fixture) seed(t *testing.T, tenant core.TenantID, id core.ID, pages ...string) {
	t.Helper()

	images := make([][]byte, len(pages))
	for i, page := range pages {
		images[i] = []byte(page)
	}
	f.files.pages[id] = images

	err := f.repos.Documents.PutDocument(context.Background(), &core.Document{
		Id:     id,
		Tenant: tenant,
		Name:   "contract.pdf",
		Status: core.StatusPending,
	})
	require.NoError(t, err)
}

func TestPipeline_ProcessDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, 1, 10,
		"the lease runs for twelve months from signing",
		"rent is due on the first business day of each month",
		"either party may terminate with sixty days written notice")

	document, err := f.pipe.ProcessDocument(ctx, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, core.StatusReady, document.Status)
	assert.Equal(t, 3, document.PageCount)
	assert.False(t, document.OCRPartial)
	assert.Contains(t, document.Text, "twelve months")
	assert.Contains(t, document.Text, "sixty days")

	chunks, err := f.repos.Chunks.GetDocumentChunks(ctx, 1, 10)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// The indexed vector for a chunk's text must be findable by querying
	// with that same text's embedding.
	vector := embedding.NormalizeVector(mock.DeterministicVector(chunks[0].Text, 384))
	matches, err := f.store.Query(ctx, 1, vector, 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, core.ID(10), matches[0].DocumentId)

	snapshot := f.registry.Snapshot()
	assert.Equal(t, uint64(1), snapshot["pipeline.process"].Count)
	assert.Zero(t, snapshot["pipeline.process"].Failures)
}

func TestPipeline_PartialExtractionStillBecomesReady(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, 1, 11,
		"the deed conveys the northern parcel to the buyer",
		"bad scan",
		"closing takes place within thirty days of inspection")

	document, err := f.pipe.ProcessDocument(ctx, 1, 11)
	require.NoError(t, err)

	assert.Equal(t, core.StatusReady, document.Status)
	assert.True(t, document.OCRPartial)
	assert.Contains(t, document.Text, "[page 2 unreadable]")
	assert.Contains(t, document.Text, "northern parcel")
}

func TestPipeline_AllPagesUnreadableFailsDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, 1, 12, "bad one", "bad two")

	_, err := f.pipe.ProcessDocument(ctx, 1, 12)
	require.Error(t, err)
	assert.Equal(t, core.KindTransient, core.KindOf(err))

	document, err := f.repos.Documents.GetDocument(ctx, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, document.Status)

	snapshot := f.registry.Snapshot()
	assert.Equal(t, uint64(1), snapshot["pipeline.process"].Failures)
}

func TestPipeline_EmbeddingFailureFailsDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, 1, 13, "the indemnity clause survives termination of this agreement")

	f.embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.pipe.ProcessDocument(ctx, 1, 13)
	require.Error(t, err)

	document, err := f.repos.Documents.GetDocument(ctx, 1, 13)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, document.Status)
}

func TestPipeline_RejectsDocumentNotPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repos.Documents.PutDocument(ctx, &core.Document{
		Id:     14,
		Tenant: 1,
		Name:   "done.pdf",
		Status: core.StatusReady,
	})
	require.NoError(t, err)

	_, err = f.pipe.ProcessDocument(ctx, 1, 14)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
}

func TestPipeline_MissingDocument(t *testing.T) {
	f := newFixture(t)

	_, err := f.pipe.ProcessDocument(context.Background(), 1, 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPipeline_RemoveDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, 1, 15, "the easement grants access across the western boundary")

	_, err := f.pipe.ProcessDocument(ctx, 1, 15)
	require.NoError(t, err)

	chunks, err := f.repos.Chunks.GetDocumentChunks(ctx, 1, 15)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	queryVector := embedding.NormalizeVector(mock.DeterministicVector(chunks[0].Text, 384))

	require.NoError(t, f.pipe.RemoveDocument(ctx, 1, 15))

	chunks, err = f.repos.Chunks.GetDocumentChunks(ctx, 1, 15)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	matches, err := f.store.Query(ctx, 1, queryVector, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPipeline_ConfigValidation(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrDocumentsRequired)
}
