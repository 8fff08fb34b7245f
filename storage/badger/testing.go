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


package badger

// Repositories bundles all repository implementations over one backend.
type Repositories struct {
	Backend         *Backend
	Documents       *DocumentRepository
	Chunks          *ChunkRepository
	Classifications *ClassificationRepository
	Conversations   *ConversationRepository
}

// Close closes the repositories and the underlying backend.
func (r *Repositories) Close() error {
	r.Conversations.Close()
	return r.Backend.Close()
}

// NewRepositories opens a backend at path and constructs all repositories.
func NewRepositories(path string) (*Repositories, error) {
	return newRepositories(path, false)
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must close the result when done.
func NewMemoryRepositories() (*Repositories, error) {
	return newRepositories("", true)
}

func newRepositories(path string, inMemory bool) (*Repositories, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	documents, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	chunks, err := NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	classifications, err := NewClassificationRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	conversations, err := NewConversationRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Backend:         backend,
		Documents:       documents,
		Chunks:          chunks,
		Classifications: classifications,
		Conversations:   conversations,
	}, nil
}
