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


package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/docpipe/ai"
	"github.com/poiesic/docpipe/chunker"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/embedding"
	"github.com/poiesic/docpipe/index"
	"github.com/poiesic/docpipe/storage"
)

const (
	// DefaultTopK is the number of chunks retrieved per question.
	DefaultTopK = 5

	// DefaultHistoryTurns is how many prior turns enter the prompt.
	DefaultHistoryTurns = 6

	// DefaultContextBudgetTokens bounds the retrieved text in the prompt.
	// Lowest-ranked chunks are dropped first when the budget is exceeded.
	DefaultContextBudgetTokens = 3000

	// DefaultCallTimeout bounds one generation call, streamed answers
	// included.
	DefaultCallTimeout = 2 * time.Minute
)

// Orchestrator answers questions against a tenant's document corpus. Each
// answer turn moves through received, query_embedded, retrieved,
// answer_generated and done; any step may divert to failed. Retrieval
// failures degrade the answer rather than fail it, except integrity faults,
// which always abort.
type Orchestrator struct {
	embedder      *embedding.Stage
	store         *index.Store
	generator     ai.Generator
	chunks        storage.ChunkRepository
	conversations storage.ConversationRepository
	counter       chunker.TokenCounter
	topK          int
	historyTurns  int
	contextBudget int
	callTimeout   time.Duration
	logger        *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithChunkRepository enables retrieval of chunk text for prompts and
// citations. Without it, answers are never grounded.
func WithChunkRepository(chunks storage.ChunkRepository) Option {
	return func(o *Orchestrator) {
		o.chunks = chunks
	}
}

// WithConversationRepository enables history and turn persistence.
func WithConversationRepository(conversations storage.ConversationRepository) Option {
	return func(o *Orchestrator) {
		o.conversations = conversations
	}
}

// WithTokenCounter sets the counter used for the context budget.
func WithTokenCounter(counter chunker.TokenCounter) Option {
	return func(o *Orchestrator) {
		if counter != nil {
			o.counter = counter
		}
	}
}

// WithTopK sets the number of chunks retrieved per question.
func WithTopK(k int) Option {
	return func(o *Orchestrator) {
		if k > 0 {
			o.topK = k
		}
	}
}

// WithHistoryTurns sets how many prior turns enter the prompt.
func WithHistoryTurns(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.historyTurns = n
		}
	}
}

// WithContextBudget sets the token budget for retrieved text.
func WithContextBudget(tokens int) Option {
	return func(o *Orchestrator) {
		if tokens > 0 {
			o.contextBudget = tokens
		}
	}
}

// WithCallTimeout bounds one generation call. Zero or negative disables
// the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.callTimeout = d
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a chat orchestrator.
func New(embedder *embedding.Stage, store *index.Store, generator ai.Generator, opts ...Option) (*Orchestrator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrIndexRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	o := &Orchestrator{
		embedder:      embedder,
		store:         store,
		generator:     generator,
		counter:       chunker.WordCounter{},
		topK:          DefaultTopK,
		historyTurns:  DefaultHistoryTurns,
		contextBudget: DefaultContextBudgetTokens,
		callTimeout:   DefaultCallTimeout,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "chat")
	return o, nil
}

// turnContext carries one answer turn through the steps.
type turnContext struct {
	tenant         core.TenantID
	conversationID core.ID
	message        string
	state          TurnState
	chunks         []*core.Chunk
	citations      []core.Citation
	degraded       bool
	history        []*core.ConversationTurn
}

// Ask answers one question and returns the persisted assistant turn.
func (o *Orchestrator) Ask(ctx context.Context, tenant core.TenantID, conversationID core.ID, message string) (*core.ConversationTurn, error) {
	tc, err := o.prepare(ctx, tenant, conversationID, message)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := ai.CallContext(ctx, o.callTimeout)
	defer cancel()

	answer, err := o.generator.Generate(callCtx, o.buildMessages(tc), false)
	if err != nil {
		o.failTurn(tc, err)
		return nil, o.wrapGenerateError(err)
	}
	tc.state = StateAnswerGenerated

	return o.finish(ctx, tc, answer)
}

// AskStream answers one question, delivering the answer as a cancellable
// fragment stream. The assistant turn is persisted once the stream ends.
func (o *Orchestrator) AskStream(ctx context.Context, tenant core.TenantID, conversationID core.ID, message string) (*Stream, error) {
	tc, err := o.prepare(ctx, tenant, conversationID, message)
	if err != nil {
		return nil, err
	}

	stream := newStream()
	go func() {
		defer stream.close()

		callCtx, cancel := ai.CallContext(ctx, o.callTimeout)
		defer cancel()

		answer, err := o.generator.GenerateStream(callCtx, o.buildMessages(tc), func(ctx context.Context, fragment string) error {
			return stream.emit(ctx, fragment)
		})
		if err != nil {
			o.failTurn(tc, err)
			stream.fail(o.wrapGenerateError(err))
			return
		}
		tc.state = StateAnswerGenerated

		turn, err := o.finish(ctx, tc, answer)
		if err != nil {
			stream.fail(err)
			return
		}
		stream.succeed(turn)
	}()

	return stream, nil
}

// prepare runs the pre-generation steps: validate, persist the user turn,
// embed the query and retrieve context.
func (o *Orchestrator) prepare(ctx context.Context, tenant core.TenantID, conversationID core.ID, message string) (*turnContext, error) {
	const op = "chat.Ask"

	if tenant == 0 {
		return nil, core.Permanent(op, core.ErrMissingTenant)
	}
	if strings.TrimSpace(message) == "" {
		return nil, core.Permanent(op, ErrEmptyMessage)
	}

	tc := &turnContext{
		tenant:         tenant,
		conversationID: conversationID,
		message:        message,
		state:          StateReceived,
	}

	if o.conversations != nil {
		history, err := o.conversations.RecentTurns(ctx, tenant, conversationID, o.historyTurns)
		if err != nil {
			return nil, err
		}
		tc.history = history

		userTurn := &core.ConversationTurn{
			Id:             uuid.NewString(),
			ConversationId: conversationID,
			Tenant:         tenant,
			Role:           core.RoleUser,
			Text:           message,
			CreatedAt:      time.Now(),
		}
		if err := o.conversations.AppendTurn(ctx, userTurn); err != nil {
			return nil, err
		}
	}

	if err := o.retrieve(ctx, tc); err != nil {
		tc.state = StateFailed
		return nil, err
	}
	return tc, nil
}

// retrieve embeds the query and collects context chunks. Transient
// retrieval failures degrade the turn to an ungrounded answer; integrity
// faults abort hard.
func (o *Orchestrator) retrieve(ctx context.Context, tc *turnContext) error {
	vector, err := o.embedder.EmbedQuery(ctx, tc.tenant, tc.message)
	if err != nil {
		o.logger.Warn("query embedding failed, answering ungrounded",
			"tenant", tc.tenant, "error", err)
		tc.degraded = true
		tc.state = StateRetrieved
		return nil
	}
	tc.state = StateQueryEmbedded

	matches, err := o.store.Query(ctx, tc.tenant, vector, o.topK)
	if err != nil {
		// Never answer from a corrupt partition.
		if core.KindOf(err) == core.KindIntegrity {
			return err
		}
		o.logger.Warn("retrieval failed, answering ungrounded",
			"tenant", tc.tenant, "error", err)
		tc.degraded = true
		tc.state = StateRetrieved
		return nil
	}
	tc.state = StateRetrieved

	if o.chunks == nil {
		return nil
	}

	budget := o.contextBudget
	for _, match := range matches {
		chunk, err := o.chunks.GetChunk(ctx, tc.tenant, match.DocumentId, match.ChunkIndex)
		if err != nil {
			o.logger.Warn("retrieved chunk missing from store",
				"tenant", tc.tenant, "document", match.DocumentId, "chunk", match.ChunkIndex, "error", err)
			tc.degraded = true
			continue
		}

		cost := chunk.TokenCount
		if cost == 0 {
			cost = o.counter.Count(chunk.Text)
		}
		if cost > budget {
			// Budget exhausted; lower-ranked chunks are dropped.
			break
		}
		budget -= cost

		tc.chunks = append(tc.chunks, chunk)
		tc.citations = append(tc.citations, core.Citation{
			DocumentId: match.DocumentId,
			ChunkIndex: match.ChunkIndex,
			Score:      match.Score,
		})
	}
	return nil
}

// buildMessages assembles system prompt, history window and the question.
func (o *Orchestrator) buildMessages(tc *turnContext) []ai.Message {
	messages := make([]ai.Message, 0, len(tc.history)+2)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Text: buildSystemPrompt(tc.chunks)})

	for _, turn := range tc.history {
		role := ai.RoleUser
		if turn.Role == core.RoleAssistant {
			role = ai.RoleAssistant
		}
		messages = append(messages, ai.Message{Role: role, Text: turn.Text})
	}

	messages = append(messages, ai.Message{Role: ai.RoleUser, Text: tc.message})
	return messages
}

// finish persists the assistant turn and closes out the state machine.
func (o *Orchestrator) finish(ctx context.Context, tc *turnContext, answer string) (*core.ConversationTurn, error) {
	turn := &core.ConversationTurn{
		Id:             uuid.NewString(),
		ConversationId: tc.conversationID,
		Tenant:         tc.tenant,
		Role:           core.RoleAssistant,
		Text:           answer,
		Citations:      tc.citations,
		Grounded:       len(tc.chunks) > 0,
		Degraded:       tc.degraded,
		CreatedAt:      time.Now(),
	}

	if o.conversations != nil {
		if err := o.conversations.AppendTurn(ctx, turn); err != nil {
			tc.state = StateFailed
			return nil, err
		}
	}
	tc.state = StateDone

	o.logger.Info("turn answered",
		"tenant", tc.tenant,
		"conversation", tc.conversationID,
		"grounded", turn.Grounded,
		"degraded", turn.Degraded,
		"citations", len(turn.Citations))
	return turn, nil
}

func (o *Orchestrator) failTurn(tc *turnContext, err error) {
	tc.state = StateFailed
	o.logger.Error("turn failed",
		"tenant", tc.tenant,
		"conversation", tc.conversationID,
		"state", tc.state,
		"error", err)
}

func (o *Orchestrator) wrapGenerateError(err error) error {
	const op = "chat.Ask"
	if ai.IsTransient(err) {
		return core.Transient(op, err)
	}
	return core.Permanent(op, err)
}
