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


package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/docpipe/ai"
	"github.com/poiesic/docpipe/chunker"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/embedding"
	"github.com/poiesic/docpipe/index"
	"github.com/poiesic/docpipe/metrics"
	"github.com/poiesic/docpipe/ocr"
	"github.com/poiesic/docpipe/storage"
)

// DefaultStageTimeout bounds each pipeline stage individually, so a stuck
// provider fails one document instead of wedging a worker forever.
const DefaultStageTimeout = 5 * time.Minute

// FileStore fetches the page images of an uploaded document. The pipeline
// never stores raw files itself; it only reads them for extraction.
type FileStore interface {
	GetPages(ctx context.Context, tenant core.TenantID, documentID core.ID) ([][]byte, error)
}

// Config carries the pipeline's collaborators. Documents, Chunks, Files,
// OCR, Embedder and Index are required; the rest default sensibly.
type Config struct {
	Documents storage.DocumentRepository
	Chunks    storage.ChunkRepository
	Files     FileStore
	OCR       *ocr.Stage
	Chunker   *chunker.Chunker
	Embedder  *embedding.Stage
	Index     *index.Store

	// Registry receives per-stage timings when set.
	Registry *metrics.Registry

	// StageTimeout bounds each stage. Zero means DefaultStageTimeout;
	// negative disables the bound.
	StageTimeout time.Duration

	Logger *slog.Logger
}

// Pipeline drives a document from upload to searchable: extraction,
// chunking, embedding and indexing, with the document's status advanced at
// every stage boundary. Any stage failure parks the document in the failed
// state; it never leaves a document stuck in a running state.
type Pipeline struct {
	documents    storage.DocumentRepository
	chunks       storage.ChunkRepository
	files        FileStore
	ocr          *ocr.Stage
	splitter     *chunker.Chunker
	embedder     *embedding.Stage
	index        *index.Store
	registry     *metrics.Registry
	stageTimeout time.Duration
	logger       *slog.Logger
}

// New creates a Pipeline from cfg.
func New(cfg Config) (*Pipeline, error) {
	switch {
	case cfg.Documents == nil:
		return nil, ErrDocumentsRequired
	case cfg.Chunks == nil:
		return nil, ErrChunksRequired
	case cfg.Files == nil:
		return nil, ErrFileStoreRequired
	case cfg.OCR == nil:
		return nil, ErrOCRStageRequired
	case cfg.Embedder == nil:
		return nil, ErrEmbedderRequired
	case cfg.Index == nil:
		return nil, ErrIndexRequired
	}

	p := &Pipeline{
		documents:    cfg.Documents,
		chunks:       cfg.Chunks,
		files:        cfg.Files,
		ocr:          cfg.OCR,
		splitter:     cfg.Chunker,
		embedder:     cfg.Embedder,
		index:        cfg.Index,
		registry:     cfg.Registry,
		stageTimeout: cfg.StageTimeout,
		logger:       cfg.Logger,
	}
	if p.splitter == nil {
		p.splitter = chunker.New()
	}
	if p.stageTimeout == 0 {
		p.stageTimeout = DefaultStageTimeout
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With("component", "pipeline")
	return p, nil
}

// ProcessDocument runs the full pipeline for one uploaded document and
// returns its final record. The document must be in the pending state.
func (p *Pipeline) ProcessDocument(ctx context.Context, tenant core.TenantID, documentID core.ID) (*core.Document, error) {
	started := time.Now()

	document, err := p.documents.GetDocument(ctx, tenant, documentID)
	if err != nil {
		return nil, err
	}
	if err := p.documents.UpdateDocumentStatus(ctx, tenant, documentID, core.StatusOCRRunning); err != nil {
		return nil, err
	}
	document.Status = core.StatusOCRRunning

	if err := p.process(ctx, document); err != nil {
		p.fail(ctx, tenant, documentID, err)
		p.observe("pipeline.process", started, true)
		return nil, err
	}

	p.observe("pipeline.process", started, false)
	return p.documents.GetDocument(ctx, tenant, documentID)
}

// process runs the stages after the document has entered ocr_running.
// Returning an error leaves the failure transition to the caller.
func (p *Pipeline) process(ctx context.Context, document *core.Document) error {
	tenant, documentID := document.Tenant, document.Id

	extracted, err := p.extract(ctx, document)
	if err != nil {
		return err
	}

	document.Text = extracted.Text
	document.PageCount = len(extracted.Pages)
	document.OCRConfidence = extracted.Confidence
	document.OCRPartial = extracted.Partial
	if err := p.documents.PutDocument(ctx, document); err != nil {
		return err
	}
	if err := p.documents.UpdateDocumentStatus(ctx, tenant, documentID, core.StatusOCRDone); err != nil {
		return err
	}

	chunks := p.splitter.Split(tenant, documentID, document.Text)
	if len(chunks) == 0 {
		return core.Permanent("pipeline.ProcessDocument", ErrNoChunks)
	}
	if err := p.chunks.PutChunks(ctx, chunks); err != nil {
		return err
	}

	if err := p.documents.UpdateDocumentStatus(ctx, tenant, documentID, core.StatusEmbeddingRunning); err != nil {
		return err
	}
	entries, skipped, err := p.embed(ctx, document, chunks)
	if err != nil {
		return err
	}
	if skipped > 0 {
		p.logger.Warn("some chunks not indexed",
			"tenant", tenant, "document", documentID,
			"indexed", len(entries), "skipped", skipped)
	}
	if err := p.index.UpsertBatch(ctx, entries); err != nil {
		return err
	}

	return p.documents.UpdateDocumentStatus(ctx, tenant, documentID, core.StatusReady)
}

// extract fetches the page images and runs the extraction stage.
func (p *Pipeline) extract(ctx context.Context, document *core.Document) (*ocr.Result, error) {
	started := time.Now()

	stageCtx, cancel := p.stageContext(ctx)
	defer cancel()

	images, err := p.files.GetPages(stageCtx, document.Tenant, document.Id)
	if err != nil {
		p.observe("pipeline.ocr", started, true)
		return nil, err
	}

	result, err := p.ocr.Process(stageCtx, document.Tenant, document.Id, images)
	p.observe("pipeline.ocr", started, err != nil)
	return result, err
}

// embed runs the embedding stage over chunks in batches and collects index
// entries for the vectors that succeeded. A partial batch is tolerated: its
// failed chunks are skipped, everything else proceeds.
func (p *Pipeline) embed(ctx context.Context, document *core.Document, chunks []core.Chunk) ([]core.VectorEntry, int, error) {
	started := time.Now()

	stageCtx, cancel := p.stageContext(ctx)
	defer cancel()

	var (
		entries = make([]core.VectorEntry, 0, len(chunks))
		skipped int
	)
	for start := 0; start < len(chunks); start += embedding.DefaultBatchSize {
		end := min(start+embedding.DefaultBatchSize, len(chunks))

		results, err := p.embedder.EmbedChunks(stageCtx, chunks[start:end])
		if err != nil && core.KindOf(err) != core.KindPartial {
			p.recordRateLimit("embedding", err)
			p.observe("pipeline.embedding", started, true)
			return nil, 0, err
		}

		for _, r := range results {
			if r.Err != nil {
				skipped++
				continue
			}
			entries = append(entries, core.VectorEntry{
				Tenant:       r.Chunk.Tenant,
				DocumentId:   r.Chunk.DocumentId,
				ChunkIndex:   r.Chunk.Index,
				Vector:       r.Vector,
				DocCreatedAt: document.CreatedAt,
			})
		}
	}

	p.observe("pipeline.embedding", started, false)
	return entries, skipped, nil
}

// RemoveDocument deletes a document's derived data: its chunks and its
// vector index entries. The document record itself is kept so the upload
// history stays intact.
func (p *Pipeline) RemoveDocument(ctx context.Context, tenant core.TenantID, documentID core.ID) error {
	if err := p.index.DeleteDocument(ctx, tenant, documentID); err != nil {
		return err
	}
	return p.chunks.DeleteDocumentChunks(ctx, tenant, documentID)
}

// fail parks the document in the failed state. The original ctx may already
// be canceled, so the transition runs detached from it.
func (p *Pipeline) fail(ctx context.Context, tenant core.TenantID, documentID core.ID, cause error) {
	p.logger.Error("document processing failed",
		"tenant", tenant, "document", documentID, "error", cause)

	detached := context.WithoutCancel(ctx)
	if err := p.documents.UpdateDocumentStatus(detached, tenant, documentID, core.StatusFailed); err != nil {
		p.logger.Error("could not mark document failed",
			"tenant", tenant, "document", documentID, "error", err)
	}
}

func (p *Pipeline) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.stageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.stageTimeout)
}

func (p *Pipeline) observe(operation string, started time.Time, failed bool) {
	if p.registry != nil {
		p.registry.Observe(operation, started, failed)
	}
}

func (p *Pipeline) recordRateLimit(operation string, err error) {
	if p.registry != nil && ai.IsTransient(err) {
		p.registry.RecordRateLimit(operation, err.Error())
	}
}
