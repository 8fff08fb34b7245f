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


package draft

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/docpipe/ai"
	"github.com/poiesic/docpipe/core"
)

const (
	// DefaultCallTimeout bounds a single drafting call.
	DefaultCallTimeout = 2 * time.Minute

	// DefaultDocumentType names the generic fallback when a prompt
	// request does not specify one.
	DefaultDocumentType = "legal document"

	// maxTitleRunes caps the title taken from the draft's first line.
	maxTitleRunes = 120
)

// TemplateRequest asks for a polished document built from a firm template.
type TemplateRequest struct {
	// Template is the template text with {{name}} placeholders.
	Template string

	// Placeholders maps placeholder names to their values.
	Placeholders map[string]string

	// Instructions optionally steer the polish, e.g. "keep it under one page".
	Instructions string
}

// PromptRequest asks for a document drafted from free-form instructions.
type PromptRequest struct {
	// DocumentType is a short label such as "contract" or "power of
	// attorney". Empty means DefaultDocumentType.
	DocumentType string

	// Prompt describes what the document must say.
	Prompt string

	// Facts carries case details to work into the document.
	Facts map[string]string
}

// Draft is a generated document awaiting attorney review.
type Draft struct {
	DocumentType string
	Title        string
	Text         string
	Model        string
	Elapsed      time.Duration
	CreatedAt    time.Time
}

// Drafter generates legal documents on a single model tier, normally the
// strong one. It holds no storage; drafts go back to the caller.
type Drafter struct {
	generator   ai.Generator
	callTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Drafter.
type Option func(*Drafter)

// WithCallTimeout bounds a single drafting call. Zero or negative disables
// the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(dr *Drafter) {
		dr.callTimeout = d
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(dr *Drafter) {
		if logger != nil {
			dr.logger = logger
		}
	}
}

// New creates a Drafter on the given generator.
func New(generator ai.Generator, opts ...Option) (*Drafter, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	d := &Drafter{
		generator:   generator,
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "draft")
	return d, nil
}

// FromTemplate fills the template's placeholders and has the model polish
// the assembled document.
func (d *Drafter) FromTemplate(ctx context.Context, tenant core.TenantID, req TemplateRequest) (*Draft, error) {
	const op = "draft.FromTemplate"

	if tenant == 0 {
		return nil, core.Permanent(op, core.ErrMissingTenant)
	}
	if strings.TrimSpace(req.Template) == "" {
		return nil, core.Permanent(op, ErrEmptyTemplate)
	}

	content := fillTemplate(req.Template, req.Placeholders)
	user := content
	if req.Instructions != "" {
		user += "\n\nAdditional instructions: " + req.Instructions
	}

	return d.generate(ctx, op, tenant, "", []ai.Message{
		{Role: ai.RoleSystem, Text: templateSystemPrompt},
		{Role: ai.RoleUser, Text: user},
	})
}

// FromPrompt drafts a typed document from free-form instructions.
func (d *Drafter) FromPrompt(ctx context.Context, tenant core.TenantID, req PromptRequest) (*Draft, error) {
	const op = "draft.FromPrompt"

	if tenant == 0 {
		return nil, core.Permanent(op, core.ErrMissingTenant)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, core.Permanent(op, ErrEmptyPrompt)
	}

	docType := req.DocumentType
	if docType == "" {
		docType = DefaultDocumentType
	}

	return d.generate(ctx, op, tenant, docType, []ai.Message{
		{Role: ai.RoleSystem, Text: fmt.Sprintf(promptSystemPrompt, docType)},
		{Role: ai.RoleUser, Text: req.Prompt + renderFacts(req.Facts)},
	})
}

// generate runs one model call and shapes the draft.
func (d *Drafter) generate(ctx context.Context, op string, tenant core.TenantID, docType string, messages []ai.Message) (*Draft, error) {
	started := time.Now()

	callCtx, cancel := ai.CallContext(ctx, d.callTimeout)
	defer cancel()

	text, err := d.generator.Generate(callCtx, messages, false)
	if err != nil {
		if ai.IsTransient(err) {
			return nil, core.Transient(op, err)
		}
		return nil, core.Permanent(op, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, core.Permanent(op, ErrEmptyDraft)
	}

	draft := &Draft{
		DocumentType: docType,
		Title:        deriveTitle(text, docType),
		Text:         text,
		Model:        d.generator.Model(),
		Elapsed:      time.Since(started),
		CreatedAt:    time.Now(),
	}

	d.logger.Info("document drafted",
		"tenant", tenant,
		"type", draft.DocumentType,
		"title", draft.Title,
		"model", draft.Model,
		"elapsed", draft.Elapsed)
	return draft, nil
}

// deriveTitle takes the draft's first line, falling back to the document
// type when the line is unusable.
func deriveTitle(text, docType string) string {
	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimSpace(strings.Trim(line, "#* "))
	if line == "" {
		if docType == "" {
			return DefaultDocumentType
		}
		return docType
	}
	runes := []rune(line)
	if len(runes) > maxTitleRunes {
		return string(runes[:maxTitleRunes])
	}
	return line
}
