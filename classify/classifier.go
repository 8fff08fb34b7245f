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


package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/docpipe/ai"
	"github.com/poiesic/docpipe/cache"
	"github.com/poiesic/docpipe/core"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultEscalationThreshold is the fast-tier confidence below which
	// the document is rerun on the strong model.
	DefaultEscalationThreshold = 0.75

	// DefaultMaxInputRunes truncates document text before prompting.
	DefaultMaxInputRunes = 10_000

	// DefaultCallTimeout bounds a single model call. Each parse attempt
	// and each tier gets a fresh budget.
	DefaultCallTimeout = 2 * time.Minute

	// parseAttempts bounds regeneration when the model emits broken JSON.
	parseAttempts = 3

	// cacheKeyModel names the logical model in classification cache keys.
	// Routing may pick either tier, so keys must not depend on the tier.
	cacheKeyModel = "classify"

	// classificationCost is the approximate cached size of one result.
	classificationCost = 2048
)

// Options control a single classification request.
type Options struct {
	// Force bypasses the cache and reclassifies.
	Force bool

	// Final routes straight to the strong model.
	Final bool
}

// response mirrors the JSON contract given to the model.
type response struct {
	DocumentType   string   `json:"document_type"`
	LegalArea      string   `json:"legal_area"`
	Parties        []string `json:"parties"`
	ImportantDates []string `json:"important_dates"`
	Urgency        string   `json:"urgency"`
	Summary        string   `json:"summary"`
	Keywords       []string `json:"keywords"`
	Confidence     float32  `json:"confidence"`
}

// Classifier produces one ClassificationResult per document. Requests for
// the same document are coalesced: concurrent callers share a single model
// call. Results are cached per tenant and content; Force bypasses the
// cache read but still writes back.
type Classifier struct {
	fast        ai.Generator
	strong      ai.Generator
	cache       *cache.Cache[*core.ClassificationResult]
	group       singleflight.Group
	escalation  float32
	maxRunes    int
	callTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithStrongGenerator sets the escalation tier. Without one, the fast
// tier's result always stands.
func WithStrongGenerator(generator ai.Generator) Option {
	return func(c *Classifier) {
		c.strong = generator
	}
}

// WithCache sets the shared classification cache.
func WithCache(resultCache *cache.Cache[*core.ClassificationResult]) Option {
	return func(c *Classifier) {
		c.cache = resultCache
	}
}

// WithEscalationThreshold sets the confidence below which results escalate
// to the strong model.
func WithEscalationThreshold(threshold float32) Option {
	return func(c *Classifier) {
		if threshold > 0 && threshold <= 1 {
			c.escalation = threshold
		}
	}
}

// WithMaxInputRunes bounds how much document text reaches the prompt.
func WithMaxInputRunes(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.maxRunes = n
		}
	}
}

// WithCallTimeout bounds a single model call. Zero or negative disables
// the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		c.callTimeout = d
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Classifier with fast as the first-line model.
func New(fast ai.Generator, opts ...Option) (*Classifier, error) {
	if fast == nil {
		return nil, ErrFastGeneratorRequired
	}

	c := &Classifier{
		fast:        fast,
		escalation:  DefaultEscalationThreshold,
		maxRunes:    DefaultMaxInputRunes,
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "classify")
	return c, nil
}

// Classify analyzes document text and returns a classification result.
func (c *Classifier) Classify(ctx context.Context, tenant core.TenantID, documentID core.ID, text string, opts Options) (*core.ClassificationResult, error) {
	const op = "classify.Classify"

	if tenant == 0 {
		return nil, core.Permanent(op, core.ErrMissingTenant)
	}
	if strings.TrimSpace(text) == "" {
		return nil, core.Permanent(op, core.ErrEmptyText)
	}

	text = truncateRunes(text, c.maxRunes)
	cacheKey := cache.ContentKey(tenant, cacheKeyModel, text)

	if !opts.Force && c.cache != nil {
		if result, ok := c.cache.Get(cacheKey); ok {
			c.logger.Debug("classification served from cache", "tenant", tenant, "document", documentID)
			return result, nil
		}
	}

	// Coalesce concurrent classification of the same document. Late
	// arrivals share the in-flight result instead of spending another
	// model call.
	flightKey := fmt.Sprintf("%d:%d", tenant, documentID)
	value, err, shared := c.group.Do(flightKey, func() (any, error) {
		result, err := c.classify(ctx, tenant, documentID, text, opts)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.Set(cacheKey, result, classificationCost)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("classification coalesced", "tenant", tenant, "document", documentID)
	}
	return value.(*core.ClassificationResult), nil
}

// classify routes the request through the model tiers.
func (c *Classifier) classify(ctx context.Context, tenant core.TenantID, documentID core.ID, text string, opts Options) (*core.ClassificationResult, error) {
	started := time.Now()

	generator := c.fast
	if opts.Final && c.strong != nil {
		generator = c.strong
	}

	parsed, err := c.generate(ctx, generator, text)
	if err != nil {
		return nil, err
	}
	model := generator.Model()

	// A hesitant fast-tier answer is rerun on the strong model.
	if !opts.Final && c.strong != nil && generator != c.strong && parsed.Confidence < c.escalation {
		c.logger.Info("escalating to strong model",
			"tenant", tenant,
			"document", documentID,
			"fastConfidence", parsed.Confidence,
			"threshold", c.escalation)
		escalated, err := c.generate(ctx, c.strong, text)
		if err == nil {
			parsed = escalated
			model = c.strong.Model()
		} else {
			// Keep the fast-tier result rather than failing the request.
			c.logger.Warn("escalation failed, keeping fast-tier result", "error", err)
		}
	}

	result := &core.ClassificationResult{
		DocumentId:     documentID,
		Tenant:         tenant,
		DocumentType:   parsed.DocumentType,
		LegalArea:      parsed.LegalArea,
		Parties:        parsed.Parties,
		ImportantDates: parsed.ImportantDates,
		Urgency:        parsed.Urgency,
		Summary:        parsed.Summary,
		Keywords:       parsed.Keywords,
		Confidence:     clampConfidence(parsed.Confidence),
		Model:          model,
		Elapsed:        time.Since(started),
		ClassifiedAt:   time.Now(),
	}

	c.logger.Info("document classified",
		"tenant", tenant,
		"document", documentID,
		"type", result.DocumentType,
		"confidence", result.Confidence,
		"model", result.Model,
		"elapsed", result.Elapsed)
	return result, nil
}

// generate prompts one model tier and parses its JSON answer. Malformed
// JSON earns a regeneration, up to parseAttempts.
func (c *Classifier) generate(ctx context.Context, generator ai.Generator, text string) (*response, error) {
	const op = "classify.Classify"

	messages := []ai.Message{
		{Role: ai.RoleSystem, Text: systemPrompt},
		{Role: ai.RoleUser, Text: text},
	}

	var lastErr error
	for attempt := 1; attempt <= parseAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		callCtx, cancel := ai.CallContext(ctx, c.callTimeout)
		raw, err := generator.Generate(callCtx, messages, true)
		cancel()
		if err != nil {
			if ai.IsTransient(err) {
				return nil, core.Transient(op, err)
			}
			return nil, core.Permanent(op, err)
		}

		// Strip markdown code fences if present
		raw = strings.TrimSpace(raw)
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(raw, "```")
		raw = strings.TrimSpace(raw)

		// Try to repair common JSON issues
		raw = repairJSON(raw)

		var parsed response
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			lastErr = err
			c.logger.Warn("error parsing classification response",
				"attempt", attempt,
				"model", generator.Model(),
				"err", err)
			continue
		}
		return &parsed, nil
	}

	return nil, core.Permanent(op, fmt.Errorf("%w: %w", ErrUnparsableResponse, lastErr))
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func clampConfidence(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
