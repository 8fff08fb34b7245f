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


package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/docpipe/ai"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/executor"
)

const (
	// DefaultMaxConcurrentPages bounds simultaneous page extractions.
	DefaultMaxConcurrentPages = 8

	// DefaultMaxPageRetries is the per-page retry budget.
	DefaultMaxPageRetries = 3

	// DefaultRetryDelay is the pause between attempts on the same page.
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultCallTimeout bounds a single engine call on one page. Each
	// retry attempt gets a fresh budget.
	DefaultCallTimeout = 60 * time.Second
)

// pageGapMarker replaces the text of a page that stayed unreadable after
// all retries, preserving document flow for the reader.
func pageGapMarker(pageIndex int) string {
	return fmt.Sprintf("[page %d unreadable]", pageIndex+1)
}

// Result is the output of extracting one document.
type Result struct {
	Text       string      // Reassembled text, with gap markers for failed pages
	Pages      []core.Page // Per-page outcomes, in page order
	Confidence float32     // Mean confidence over readable pages
	Partial    bool        // Some pages stayed unreadable after retries
}

// Stage extracts text from document pages. Pages are processed in parallel
// on the worker pool, each with its own retry budget, and reassembled in
// page order regardless of completion order. A document survives
// individual unreadable pages; it fails only when no page yields text.
type Stage struct {
	engine      Engine
	exec        *executor.Executor
	maxPages    int
	maxRetries  int
	retryDelay  time.Duration
	callTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Stage.
type Option func(*Stage)

// WithExecutor sets the worker pool for parallel page extraction.
// Without one, pages are processed sequentially.
func WithExecutor(exec *executor.Executor) Option {
	return func(s *Stage) {
		s.exec = exec
	}
}

// WithMaxConcurrentPages bounds simultaneous page extractions.
func WithMaxConcurrentPages(n int) Option {
	return func(s *Stage) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithMaxPageRetries sets the per-page retry budget.
func WithMaxPageRetries(n int) Option {
	return func(s *Stage) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithRetryDelay sets the pause between attempts on the same page.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Stage) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

// WithCallTimeout bounds a single engine call on one page. Zero or
// negative disables the bound.
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

// NewStage creates an extraction stage backed by the given engine
// (typically a FallbackEngine chain).
func NewStage(engine Engine, opts ...Option) (*Stage, error) {
	if engine == nil {
		return nil, ErrNoEngines
	}

	s := &Stage{
		engine:      engine,
		maxPages:    DefaultMaxConcurrentPages,
		maxRetries:  DefaultMaxPageRetries,
		retryDelay:  DefaultRetryDelay,
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "ocr")
	return s, nil
}

// Process extracts text from all pages of a document and reassembles it.
func (s *Stage) Process(ctx context.Context, tenant core.TenantID, documentID core.ID, images [][]byte) (*Result, error) {
	const op = "ocr.Process"

	if tenant == 0 {
		return nil, core.Permanent(op, core.ErrMissingTenant)
	}
	if len(images) == 0 {
		return nil, core.Permanent(op, ErrNoPages)
	}

	pages := make([]core.Page, len(images))
	sem := make(chan struct{}, s.maxPages)
	var wg sync.WaitGroup

	for i := range images {
		pages[i].Index = i

		if s.exec == nil {
			s.extractPage(ctx, images[i], &pages[i])
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			err := s.exec.Submit(ctx, func(ctx context.Context) error {
				s.extractPage(ctx, images[i], &pages[i])
				return nil
			})
			if err != nil {
				pages[i].Failed = true
			}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.reassemble(tenant, documentID, pages)
}

// extractPage runs the engine on one page with retries. Outcome is written
// into page; a page that stays unreadable is marked Failed rather than
// erroring the document.
func (s *Stage) extractPage(ctx context.Context, image []byte, page *core.Page) {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		if ctx.Err() != nil {
			page.Failed = true
			return
		}

		callCtx, cancel := ai.CallContext(ctx, s.callTimeout)
		text, confidence, err := s.engine.Recognize(callCtx, image)
		cancel()
		if err == nil {
			page.Text = text
			page.Confidence = confidence
			page.Retries = attempt - 1
			return
		}
		lastErr = err

		if attempt < s.maxRetries && s.retryDelay > 0 {
			timer := time.NewTimer(s.retryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				page.Failed = true
				return
			case <-timer.C:
			}
		}
	}

	s.logger.Warn("page unreadable after retries",
		"page", page.Index, "attempts", s.maxRetries, "error", lastErr)
	page.Failed = true
	page.Retries = s.maxRetries
}

// reassemble joins page texts in page order, substituting gap markers for
// failed pages.
func (s *Stage) reassemble(tenant core.TenantID, documentID core.ID, pages []core.Page) (*Result, error) {
	const op = "ocr.Process"

	var (
		parts      = make([]string, 0, len(pages))
		confidence float32
		readable   int
	)
	for i := range pages {
		if pages[i].Failed {
			parts = append(parts, pageGapMarker(i))
			continue
		}
		parts = append(parts, pages[i].Text)
		confidence += pages[i].Confidence
		readable++
	}

	if readable == 0 {
		s.logger.Error("document extraction failed",
			"tenant", tenant, "document", documentID, "pages", len(pages))
		return nil, core.Transient(op, ErrAllPagesFailed)
	}

	result := &Result{
		Text:       strings.Join(parts, "\n\n"),
		Pages:      pages,
		Confidence: confidence / float32(readable),
		Partial:    readable < len(pages),
	}

	s.logger.Info("document extracted",
		"tenant", tenant,
		"document", documentID,
		"pages", len(pages),
		"readable", readable,
		"confidence", result.Confidence,
		"partial", result.Partial)
	return result, nil
}
