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


package mock

import "github.com/poiesic/docpipe/ai"

// Provider is a test double for ai.Provider.
// It aggregates mock embedder and generator instances.
type Provider struct {
	embedder *Embedder
	fast     *Generator
	strong   *Generator
}

// NewProvider creates a new mock provider with default mock services.
//
// Returns the concrete type so tests can reach the underlying mocks for
// call-count assertions.
func NewProvider() *Provider {
	fast := NewGenerator("")
	fast.ModelName = "mock-fast"
	strong := NewGenerator("")
	strong.ModelName = "mock-strong"
	return &Provider{
		embedder: NewEmbedder(),
		fast:     fast,
		strong:   strong,
	}
}

// Embedder returns the mock embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// FastGenerator returns the mock fast generator.
func (p *Provider) FastGenerator() ai.Generator {
	return p.fast
}

// StrongGenerator returns the mock strong generator.
func (p *Provider) StrongGenerator() ai.Generator {
	return p.strong
}

// MockEmbedder returns the concrete embedder for test assertions.
func (p *Provider) MockEmbedder() *Embedder {
	return p.embedder
}

// MockFast returns the concrete fast generator for test assertions.
func (p *Provider) MockFast() *Generator {
	return p.fast
}

// MockStrong returns the concrete strong generator for test assertions.
func (p *Provider) MockStrong() *Generator {
	return p.strong
}

// Close is a no-op for the mock provider.
func (p *Provider) Close() error {
	return nil
}
