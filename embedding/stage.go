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


package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/docpipe/ai"
	"github.com/poiesic/docpipe/cache"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/executor"
)

const (
	// DefaultBatchSize is the maximum number of chunks accepted per
	// EmbedChunks call.
	DefaultBatchSize = 100

	// DefaultSubBatchSize is the number of texts sent to the provider in
	// a single request.
	DefaultSubBatchSize = 32

	// DefaultMaxRetries is the per-sub-batch retry budget for transient
	// provider failures.
	DefaultMaxRetries = 3

	// DefaultRetryBaseDelay is the base delay for exponential backoff.
	DefaultRetryBaseDelay = time.Second

	// DefaultCallTimeout bounds a single provider request. Each retry
	// attempt gets a fresh budget.
	DefaultCallTimeout = 60 * time.Second
)

// Result carries the embedding outcome for a single chunk. Exactly one of
// Vector and Err is meaningful.
type Result struct {
	Chunk  core.Chunk
	Vector []float32
	Cached bool
	Err    error
}

// Stage turns text chunks into normalized embedding vectors. It consults
// the shared cache before calling the provider, splits misses into
// sub-batches, and retries transient provider failures with exponential
// backoff. A failed sub-batch fails only its own chunks.
type Stage struct {
	embedder       ai.Embedder
	cache          *cache.Cache[[]float32]
	exec           *executor.Executor
	model          string
	subBatchSize   int
	maxRetries     int
	retryBaseDelay time.Duration
	callTimeout    time.Duration
	logger         *slog.Logger
}

// Option configures a Stage.
type Option func(*Stage)

// WithCache sets the shared vector cache. Without a cache every call
// reaches the provider.
func WithCache(c *cache.Cache[[]float32]) Option {
	return func(s *Stage) {
		s.cache = c
	}
}

// WithExecutor sets the worker pool used to embed sub-batches in parallel.
// Without an executor sub-batches run sequentially.
func WithExecutor(exec *executor.Executor) Option {
	return func(s *Stage) {
		s.exec = exec
	}
}

// WithModel sets the model name folded into cache keys.
func WithModel(model string) Option {
	return func(s *Stage) {
		if model != "" {
			s.model = model
		}
	}
}

// WithSubBatchSize sets the number of texts per provider request.
func WithSubBatchSize(n int) Option {
	return func(s *Stage) {
		if n > 0 {
			s.subBatchSize = n
		}
	}
}

// WithMaxRetries sets the retry budget for transient failures.
func WithMaxRetries(n int) Option {
	return func(s *Stage) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithRetryBaseDelay sets the base backoff delay.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(s *Stage) {
		if d > 0 {
			s.retryBaseDelay = d
		}
	}
}

// WithCallTimeout bounds a single provider request. Zero or negative
// disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Stage) {
		s.callTimeout = d
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStage creates an embedding stage backed by the given embedder.
func NewStage(embedder ai.Embedder, opts ...Option) *Stage {
	s := &Stage{
		embedder:       embedder,
		model:          "default",
		subBatchSize:   DefaultSubBatchSize,
		maxRetries:     DefaultMaxRetries,
		retryBaseDelay: DefaultRetryBaseDelay,
		callTimeout:    DefaultCallTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "embedding")
	return s
}

// EmbedChunks embeds a batch of chunks, cache-first. The returned slice is
// index-aligned with chunks. When some chunks fail the error is partial
// and the survivors' Results are still valid; when every chunk fails the
// whole batch errors.
func (s *Stage) EmbedChunks(ctx context.Context, chunks []core.Chunk) ([]Result, error) {
	const op = "embedding.EmbedChunks"

	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) > DefaultBatchSize {
		return nil, core.Permanent(op, fmt.Errorf("batch of %d exceeds limit of %d", len(chunks), DefaultBatchSize))
	}

	results := make([]Result, len(chunks))
	var misses []int
	for i, chunk := range chunks {
		results[i].Chunk = chunk
		if vec, ok := s.cacheGet(chunk.Tenant, chunk.Text); ok {
			results[i].Vector = vec
			results[i].Cached = true
			continue
		}
		misses = append(misses, i)
	}

	if len(misses) == 0 {
		return results, nil
	}

	s.embedMisses(ctx, chunks, misses, results)

	failed := 0
	for i := range results {
		if results[i].Err != nil {
			failed++
		}
	}
	switch {
	case failed == len(chunks):
		return results, core.Transient(op, ErrAllChunksFailed)
	case failed > 0:
		return results, core.Partial(op, fmt.Errorf("%d of %d chunks failed to embed", failed, len(chunks)))
	}
	return results, nil
}

// embedMisses splits cache misses into sub-batches and embeds them,
// concurrently when an executor is configured. Each sub-batch writes into
// a disjoint set of result indexes, so no locking is needed.
func (s *Stage) embedMisses(ctx context.Context, chunks []core.Chunk, misses []int, results []Result) {
	var wg sync.WaitGroup
	for start := 0; start < len(misses); start += s.subBatchSize {
		end := start + s.subBatchSize
		if end > len(misses) {
			end = len(misses)
		}
		sub := misses[start:end]

		if s.exec == nil {
			s.embedSubBatch(ctx, chunks, sub, results)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.exec.Submit(ctx, func(ctx context.Context) error {
				s.embedSubBatch(ctx, chunks, sub, results)
				return nil
			})
			if err != nil {
				for _, i := range sub {
					results[i].Err = core.Transient("embedding.EmbedChunks", err)
				}
			}
		}()
	}
	wg.Wait()
}

func (s *Stage) embedSubBatch(ctx context.Context, chunks []core.Chunk, sub []int, results []Result) {
	texts := make([]string, len(sub))
	for j, i := range sub {
		texts[j] = chunks[i].Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		callCtx, cancel := ai.CallContext(ctx, s.callTimeout)
		defer cancel()

		var err error
		vectors, err = s.embedder.EmbedTexts(callCtx, texts)
		if err != nil {
			return err
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("%w: expected %d, got %d", ErrCountMismatch, len(texts), len(vectors))
		}
		return nil
	}, s.maxRetries, s.retryBaseDelay, ai.IsTransient)

	if err != nil {
		s.logger.Warn("sub-batch embedding failed", "size", len(sub), "error", err)
		kind := core.Permanent
		if ai.IsTransient(err) {
			kind = core.Transient
		}
		for _, i := range sub {
			results[i].Err = kind("embedding.EmbedChunks", err)
		}
		return
	}

	for j, i := range sub {
		vec := NormalizeVector(vectors[j])
		results[i].Vector = vec
		s.cacheSet(chunks[i].Tenant, chunks[i].Text, vec)
	}
}

// EmbedQuery embeds a single query string for retrieval, cache-first.
func (s *Stage) EmbedQuery(ctx context.Context, tenant core.TenantID, text string) ([]float32, error) {
	const op = "embedding.EmbedQuery"

	if text == "" {
		return nil, core.Permanent(op, core.ErrEmptyText)
	}

	if vec, ok := s.cacheGet(tenant, text); ok {
		return vec, nil
	}

	var vec []float32
	err := RetryWithBackoff(ctx, func() error {
		callCtx, cancel := ai.CallContext(ctx, s.callTimeout)
		defer cancel()

		var err error
		vec, err = s.embedder.EmbedText(callCtx, text)
		return err
	}, s.maxRetries, s.retryBaseDelay, ai.IsTransient)
	if err != nil {
		if ai.IsTransient(err) {
			return nil, core.Transient(op, err)
		}
		return nil, core.Permanent(op, err)
	}

	vec = NormalizeVector(vec)
	s.cacheSet(tenant, text, vec)
	return vec, nil
}

func (s *Stage) cacheGet(tenant core.TenantID, text string) ([]float32, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(cache.ContentKey(tenant, s.model, text))
}

func (s *Stage) cacheSet(tenant core.TenantID, text string, vec []float32) {
	if s.cache == nil {
		return
	}
	s.cache.Set(cache.ContentKey(tenant, s.model, text), vec, int64(len(vec))*4)
}
