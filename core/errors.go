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

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so callers can decide whether a
// result is retryable, acceptable-but-degraded, or must abort the request.
type ErrorKind int

const (
	// KindTransient marks provider rate limits and timeouts. Retried with
	// backoff; surfaced per-unit once attempts are exhausted.
	KindTransient ErrorKind = iota + 1
	// KindPartial marks degraded-but-usable results (some pages or chunks
	// failed while the majority succeeded). Never silently dropped.
	KindPartial
	// KindIntegrity marks cross-tenant leaks and cache key collisions.
	// Fatal: never retried, never masked, aborts the whole request.
	KindIntegrity
	// KindPermanent marks malformed input and unsupported content.
	// Surfaced immediately without retry.
	KindPermanent
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPartial:
		return "partial"
	case KindIntegrity:
		return "integrity"
	case KindPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// Error is a structured pipeline error: a kind, the operation that failed,
// and the underlying cause. It supports errors.Is/As through Unwrap.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient wraps err as a transient failure of op.
func Transient(op string, err error) *Error {
	return &Error{Kind: KindTransient, Op: op, Err: err}
}

// Partial wraps err as a degraded-but-usable failure of op.
func Partial(op string, err error) *Error {
	return &Error{Kind: KindPartial, Op: op, Err: err}
}

// Integrityf creates a fatal integrity fault. Callers must abort the
// request; this kind is never retried.
func Integrityf(op string, format string, args ...any) *Error {
	return &Error{Kind: KindIntegrity, Op: op, Err: fmt.Errorf(format, args...)}
}

// Permanent wraps err as a non-retryable failure of op.
func Permanent(op string, err error) *Error {
	return &Error{Kind: KindPermanent, Op: op, Err: err}
}

// KindOf extracts the ErrorKind from err, or 0 when err carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsRetryable reports whether err may be retried. Only transient errors
// qualify; integrity faults are explicitly excluded.
func IsRetryable(err error) bool {
	return KindOf(err) == KindTransient
}

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidTurn indicates a ConversationTurn failed validation.
	ErrInvalidTurn = errors.New("invalid conversation turn")

	// ErrEmptyText indicates a required text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrMissingTenant indicates the tenant id is zero.
	ErrMissingTenant = errors.New("tenant id is required")

	// ErrInvalidRole indicates an invalid TurnRole value.
	ErrInvalidRole = errors.New("invalid turn role")

	// ErrInvalidConfidence indicates a confidence score outside [0,1].
	ErrInvalidConfidence = errors.New("confidence must be in [0,1]")

	// ErrInvalidTransition indicates an illegal document status transition.
	ErrInvalidTransition = errors.New("invalid status transition")
)
