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
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const visionTemperature = 0.0

const visionPrompt = `Transcribe every word of this document page exactly as written.
Preserve paragraph breaks. Output only the transcription, nothing else.
If the page is blank or unreadable, output nothing.`

// baseConfidence is reported for transcriptions the model returned without
// complaint. Chat-based extraction has no per-character confidence, so the
// score only distinguishes readable pages from empty ones.
const baseConfidence = 0.9

// VisionEngine extracts page text with a multimodal chat model over an
// OpenAI-compatible API. Each page image is sent as a binary content part
// alongside a transcription instruction.
type VisionEngine struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

var _ Engine = (*VisionEngine)(nil)

// NewVisionEngine creates an engine for the given host and vision model.
func NewVisionEngine(host, model string) (*VisionEngine, error) {
	client, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken("none"),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}

	return &VisionEngine{
		client: client,
		model:  model,
		logger: slog.Default().With("component", "ocr-vision", "model", model),
	}, nil
}

// Name returns the model identifier.
func (e *VisionEngine) Name() string {
	return e.model
}

// Recognize transcribes one page image.
func (e *VisionEngine) Recognize(ctx context.Context, image []byte) (string, float32, error) {
	content := []llms.MessageContent{{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.BinaryPart(http.DetectContentType(image), image),
			llms.TextPart(visionPrompt),
		},
	}}

	response, err := e.client.GenerateContent(ctx, content,
		llms.WithTemperature(visionTemperature))
	if err != nil {
		e.logger.Error("failed to transcribe page", "err", err)
		return "", 0, err
	}
	if len(response.Choices) < 1 {
		return "", 0, ErrNoText
	}

	text := strings.TrimSpace(response.Choices[0].Content)
	if text == "" {
		return "", 0, ErrNoText
	}
	return text, baseConfidence, nil
}
