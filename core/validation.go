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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Tenant must be set
//   - Status must be a known state
//
// NOT validated (populated by pipeline stages):
//   - Text, OCRConfidence (empty until the OCR stage runs)
//   - ID (0 is valid from database sequences)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Tenant == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrMissingTenant)
	}

	if doc.Status < StatusPending || doc.Status > StatusFailed {
		return fmt.Errorf("%w: unknown status %d", ErrInvalidDocument, doc.Status)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Tenant must be set
//   - DocumentId must be set (chunks never exist without a document)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.Tenant == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrMissingTenant)
	}

	if chunk.DocumentId == 0 {
		return fmt.Errorf("%w: document id is required", ErrInvalidChunk)
	}

	return nil
}

// ValidateTurn validates a ConversationTurn according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Tenant must be set
//   - Role must be valid (User or Assistant)
func ValidateTurn(turn *ConversationTurn) error {
	if turn == nil {
		return fmt.Errorf("%w: turn is nil", ErrInvalidTurn)
	}

	if turn.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, ErrEmptyText)
	}

	if turn.Tenant == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, ErrMissingTenant)
	}

	if err := ValidateRole(turn.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, err)
	}

	return nil
}

// ValidateRole checks that a TurnRole is one of the defined values.
func ValidateRole(role TurnRole) error {
	switch role {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidRole, role)
	}
}

// ValidateConfidence checks that a confidence score lies in [0,1].
func ValidateConfidence(score float32) error {
	if score < 0 || score > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidConfidence, score)
	}
	return nil
}
