package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/docpipe/ai"
)

// Generator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type Generator struct {
	// ModelName is reported by Model(). Defaults to "mock-model".
	ModelName string

	// GenerateFunc is called by Generate if set.
	// If nil, returns Response.
	GenerateFunc func(ctx context.Context, messages []ai.Message, jsonMode bool) (string, error)

	// Response is the canned reply used when GenerateFunc is nil.
	Response string

	calls atomic.Int64
}

// NewGenerator creates a mock generator with a canned response.
func NewGenerator(response string) *Generator {
	return &Generator{ModelName: "mock-model", Response: response}
}

// Model returns the configured model name.
func (m *Generator) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Generate returns the canned response or delegates to GenerateFunc.
func (m *Generator) Generate(ctx context.Context, messages []ai.Message, jsonMode bool) (string, error) {
	m.calls.Add(1)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, messages, jsonMode)
	}
	return m.Response, nil
}

// GenerateStream emits the full response as a single fragment.
func (m *Generator) GenerateStream(ctx context.Context, messages []ai.Message, fn ai.StreamFunc) (string, error) {
	text, err := m.Generate(ctx, messages, false)
	if err != nil {
		return "", err
	}
	if err := fn(ctx, text); err != nil {
		return "", err
	}
	return text, nil
}

// CallCount returns the number of Generate calls (streaming included).
func (m *Generator) CallCount() int {
	return int(m.calls.Load())
}

// Reset clears the call count and injected behavior.
func (m *Generator) Reset() {
	m.calls.Store(0)
	m.GenerateFunc = nil
}
