package ai

import (
	"errors"
	"strings"
)

var (
	// ErrRateLimited indicates the provider signalled a rate limit.
	ErrRateLimited = errors.New("provider rate limit")

	// ErrEmptyResponse indicates the model returned no choices.
	ErrEmptyResponse = errors.New("empty model response")
)

// IsTransient reports whether a provider error is worth retrying with
// backoff: explicit rate limits and timeout-shaped failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "unavailable")
}
