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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/docpipe/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const generationTemperature = 0.3

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage fast and strong instances.
func newGenerator(host, model string) (*Generator, error) {
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken("none"),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		model:  model,
		logger: slog.Default().With("component", "openai-generator", "model", model),
	}, nil
}

// NewGenerator creates a generator for the given host and model.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(host, model string) (ai.Generator, error) {
	return newGenerator(host, model)
}

// Model returns the configured model identifier.
func (g *Generator) Model() string {
	return g.model
}

// Generate produces a completion for the given messages.
func (g *Generator) Generate(ctx context.Context, messages []ai.Message, jsonMode bool) (string, error) {
	content := toContent(messages)

	opts := []llms.CallOption{llms.WithTemperature(generationTemperature)}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	response, err := g.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", ai.ErrEmptyResponse
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// GenerateStream produces a completion, emitting fragments through fn as
// they arrive. The accumulated text is returned once the stream ends.
func (g *Generator) GenerateStream(ctx context.Context, messages []ai.Message, fn ai.StreamFunc) (string, error) {
	content := toContent(messages)

	var sb strings.Builder
	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(generationTemperature),
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			sb.Write(chunk)
			return fn(ctx, string(chunk))
		}),
	)
	if err != nil {
		g.logger.Error("failed to stream content", "err", err)
		return "", err
	}

	// Prefer the final choice text when the backend supplies it; fall back
	// to the accumulated fragments otherwise.
	if len(response.Choices) > 0 && response.Choices[0].Content != "" {
		return strings.TrimSpace(response.Choices[0].Content), nil
	}
	return strings.TrimSpace(sb.String()), nil
}

// toContent converts pipeline messages into langchaingo message content.
func toContent(messages []ai.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case ai.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case ai.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Text)},
		})
	}
	return content
}
