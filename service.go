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


package docpipe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/poiesic/docpipe/ai"
	"github.com/poiesic/docpipe/ai/openai"
	"github.com/poiesic/docpipe/cache"
	"github.com/poiesic/docpipe/chat"
	"github.com/poiesic/docpipe/chunker"
	"github.com/poiesic/docpipe/classify"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/draft"
	"github.com/poiesic/docpipe/embedding"
	"github.com/poiesic/docpipe/executor"
	"github.com/poiesic/docpipe/index"
	"github.com/poiesic/docpipe/metrics"
	"github.com/poiesic/docpipe/ocr"
	"github.com/poiesic/docpipe/pipeline"
	"github.com/poiesic/docpipe/storage"
	"github.com/poiesic/docpipe/storage/badger"
)

// ErrDocumentNotReady is returned when an operation needs extracted text
// but the document has not finished the extraction stage.
var ErrDocumentNotReady = errors.New("document has no extracted text yet")

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	engine       ocr.Engine
	counter      chunker.TokenCounter
	stageTimeout time.Duration
	logger       *slog.Logger
}

// WithAIConfig sets the provider configuration. Ignored when a provider is
// injected directly.
func WithAIConfig(cfg *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider injects an AI provider, bypassing provider construction
// from config. Mainly for tests.
func WithProvider(provider ai.Provider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithOCREngine sets the extraction engine. The default is a fallback
// chain of vision models built from the AI config.
func WithOCREngine(engine ocr.Engine) ServiceOption {
	return func(o *serviceOptions) {
		o.engine = engine
	}
}

// WithTokenCounter sets the token counter used for chunk metadata and the
// chat context budget.
func WithTokenCounter(counter chunker.TokenCounter) ServiceOption {
	return func(o *serviceOptions) {
		o.counter = counter
	}
}

// WithStageTimeout bounds each pipeline stage.
func WithStageTimeout(d time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.stageTimeout = d
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// Service is the top-level entry point. It owns the storage backend, the
// AI provider, the shared caches and worker pool, and exposes the pipeline,
// classification and chat operations built on them.
type Service struct {
	repos       *badger.Repositories
	provider    ai.Provider
	exec        *executor.Executor
	vectorCache *cache.Cache[[]float32]
	resultCache *cache.Cache[*core.ClassificationResult]
	store       *index.Store
	registry    *metrics.Registry
	pipe        *pipeline.Pipeline
	classifier  *classify.Classifier
	chat        *chat.Orchestrator
	drafter     *draft.Drafter
	documentIDs *badgerdb.Sequence
	logger      *slog.Logger
}

// NewService opens (or creates) the database at filePath and wires up the
// full pipeline. files supplies page images for uploaded documents.
func NewService(filePath string, files pipeline.FileStore, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.aiConfig.Validate(); err != nil {
		return nil, err
	}
	if files == nil {
		return nil, pipeline.ErrFileStoreRequired
	}
	cfg := options.aiConfig

	repos, err := badger.NewRepositories(filePath)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(cfg)
		if err != nil {
			repos.Close()
			return nil, err
		}
	}

	s := &Service{
		repos:    repos,
		provider: provider,
		registry: metrics.NewRegistry(),
		logger:   options.logger,
	}
	if err := s.wire(cfg, options, files); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// wire builds the stages and operations over the opened backend and
// provider. Split out of NewService so partial construction can be torn
// down with one Close.
func (s *Service) wire(cfg *ai.Config, options *serviceOptions, files pipeline.FileStore) error {
	var err error

	s.documentIDs, err = s.repos.Backend.GetSequence("docrec-ids")
	if err != nil {
		return err
	}

	s.exec, err = executor.New(executor.WithLogger(s.logger))
	if err != nil {
		return err
	}

	s.vectorCache, err = cache.New[[]float32](cache.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.resultCache, err = cache.New[*core.ClassificationResult](cache.WithLogger(s.logger))
	if err != nil {
		return err
	}

	s.store, err = index.NewStore(s.repos.Backend, index.WithLogger(s.logger))
	if err != nil {
		return err
	}

	counter := options.counter
	if counter == nil {
		// Real BPE counts line up with provider context windows; fall back
		// to word counts when the encoding cannot be fetched.
		if tk, err := chunker.NewTiktokenCounter(chunker.DefaultEncoding); err == nil {
			counter = tk
		} else {
			s.logger.Warn("tiktoken encoding unavailable, counting words", "err", err)
			counter = chunker.WordCounter{}
		}
	}

	embedStage := embedding.NewStage(s.provider.Embedder(),
		embedding.WithCache(s.vectorCache),
		embedding.WithExecutor(s.exec),
		embedding.WithModel(cfg.EmbeddingModel),
		embedding.WithLogger(s.logger))

	engine := options.engine
	if engine == nil {
		engine, err = s.visionChain(cfg)
		if err != nil {
			return err
		}
	}
	ocrStage, err := ocr.NewStage(engine,
		ocr.WithExecutor(s.exec),
		ocr.WithLogger(s.logger))
	if err != nil {
		return err
	}

	s.pipe, err = pipeline.New(pipeline.Config{
		Documents:    s.repos.Documents,
		Chunks:       s.repos.Chunks,
		Files:        files,
		OCR:          ocrStage,
		Chunker:      chunker.New(chunker.WithTokenCounter(counter)),
		Embedder:     embedStage,
		Index:        s.store,
		Registry:     s.registry,
		StageTimeout: options.stageTimeout,
		Logger:       s.logger,
	})
	if err != nil {
		return err
	}

	s.classifier, err = classify.New(s.provider.FastGenerator(),
		classify.WithStrongGenerator(s.provider.StrongGenerator()),
		classify.WithEscalationThreshold(cfg.EscalationThreshold),
		classify.WithCache(s.resultCache),
		classify.WithLogger(s.logger))
	if err != nil {
		return err
	}

	s.chat, err = chat.New(embedStage, s.store, s.provider.StrongGenerator(),
		chat.WithChunkRepository(s.repos.Chunks),
		chat.WithConversationRepository(s.repos.Conversations),
		chat.WithTokenCounter(counter),
		chat.WithLogger(s.logger))
	if err != nil {
		return err
	}

	s.drafter, err = draft.New(s.provider.StrongGenerator(),
		draft.WithLogger(s.logger))
	return err
}

// visionChain builds the default extraction engine: the fast vision model
// first, the strong one as fallback for pages it cannot read.
func (s *Service) visionChain(cfg *ai.Config) (ocr.Engine, error) {
	fast, err := ocr.NewVisionEngine(cfg.GenerationHost, cfg.FastModel)
	if err != nil {
		return nil, err
	}
	strong, err := ocr.NewVisionEngine(cfg.GenerationHost, cfg.StrongModel)
	if err != nil {
		return nil, err
	}
	chain, err := ocr.NewFallbackEngine([]ocr.Engine{fast, strong},
		ocr.WithFallbackLogger(s.logger))
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// CreateDocument registers a new upload in the pending state and returns
// its record. Page images must already be retrievable from the file store
// under the returned document id.
func (s *Service) CreateDocument(ctx context.Context, tenant core.TenantID, name string) (*core.Document, error) {
	id, err := s.documentIDs.Next()
	if err != nil {
		return nil, err
	}

	document := &core.Document{
		Id:     core.ID(id + 1), // sequences start at 0; ids must be nonzero
		Tenant: tenant,
		Name:   name,
		Status: core.StatusPending,
	}
	if err := s.repos.Documents.PutDocument(ctx, document); err != nil {
		return nil, err
	}
	return document, nil
}

// ProcessDocument runs extraction, chunking, embedding and indexing for a
// pending document.
func (s *Service) ProcessDocument(ctx context.Context, tenant core.TenantID, documentID core.ID) (*core.Document, error) {
	return s.pipe.ProcessDocument(ctx, tenant, documentID)
}

// RemoveDocument deletes a document's chunks and index entries.
func (s *Service) RemoveDocument(ctx context.Context, tenant core.TenantID, documentID core.ID) error {
	return s.pipe.RemoveDocument(ctx, tenant, documentID)
}

// ClassifyDocument analyzes a processed document and persists the result.
func (s *Service) ClassifyDocument(ctx context.Context, tenant core.TenantID, documentID core.ID, opts classify.Options) (*core.ClassificationResult, error) {
	started := time.Now()

	document, err := s.repos.Documents.GetDocument(ctx, tenant, documentID)
	if err != nil {
		return nil, err
	}
	if document.Text == "" {
		return nil, ErrDocumentNotReady
	}

	result, err := s.classifier.Classify(ctx, tenant, documentID, document.Text, opts)
	if err != nil {
		s.registry.Observe("classify", started, true)
		return nil, err
	}
	if err := s.repos.Classifications.PutClassification(ctx, result); err != nil {
		s.registry.Observe("classify", started, true)
		return nil, err
	}

	s.registry.Observe("classify", started, false)
	return result, nil
}

// Chat answers a question against the tenant's document corpus.
func (s *Service) Chat(ctx context.Context, tenant core.TenantID, conversationID core.ID, message string) (*core.ConversationTurn, error) {
	started := time.Now()
	turn, err := s.chat.Ask(ctx, tenant, conversationID, message)
	s.registry.Observe("chat", started, err != nil)
	return turn, err
}

// ChatStream answers a question, streaming answer fragments as they are
// generated.
func (s *Service) ChatStream(ctx context.Context, tenant core.TenantID, conversationID core.ID, message string) (*chat.Stream, error) {
	return s.chat.AskStream(ctx, tenant, conversationID, message)
}

// DraftFromTemplate fills a firm template's placeholders and returns the
// polished document for attorney review.
func (s *Service) DraftFromTemplate(ctx context.Context, tenant core.TenantID, req draft.TemplateRequest) (*draft.Draft, error) {
	started := time.Now()
	result, err := s.drafter.FromTemplate(ctx, tenant, req)
	s.registry.Observe("draft", started, err != nil)
	return result, err
}

// DraftFromPrompt drafts a typed document from free-form instructions.
func (s *Service) DraftFromPrompt(ctx context.Context, tenant core.TenantID, req draft.PromptRequest) (*draft.Draft, error) {
	started := time.Now()
	result, err := s.drafter.FromPrompt(ctx, tenant, req)
	s.registry.Observe("draft", started, err != nil)
	return result, err
}

// Documents returns the document repository.
func (s *Service) Documents() storage.DocumentRepository {
	return s.repos.Documents
}

// Classifications returns the classification repository.
func (s *Service) Classifications() storage.ClassificationRepository {
	return s.repos.Classifications
}

// Conversations returns the conversation repository.
func (s *Service) Conversations() storage.ConversationRepository {
	return s.repos.Conversations
}

// Registry returns the metrics registry.
func (s *Service) Registry() *metrics.Registry {
	return s.registry
}

// MetricsHandler serves the registry in Prometheus exposition format.
func (s *Service) MetricsHandler() http.Handler {
	return metrics.Handler(s.registry)
}

// Close releases the provider, caches, worker pool and storage backend.
func (s *Service) Close() error {
	if s.provider != nil {
		if err := s.provider.Close(); err != nil {
			s.logger.Error("error closing AI provider", "err", err)
		}
	}
	if s.exec != nil {
		s.exec.Release()
	}
	if s.vectorCache != nil {
		s.vectorCache.Close()
	}
	if s.resultCache != nil {
		s.resultCache.Close()
	}
	if s.documentIDs != nil {
		if err := s.documentIDs.Release(); err != nil {
			s.logger.Error("error releasing document id sequence", "err", err)
		}
	}
	return s.repos.Close()
}
