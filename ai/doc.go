// Package ai defines the provider-facing interfaces of the pipeline:
// embedding generation and text generation against OpenAI-compatible
// services, with a fast/strong model split used by the routing policy.
//
// Concrete implementations live in subpackages: ai/openai for real
// providers, ai/mock for deterministic test doubles.
package ai
