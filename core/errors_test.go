package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"transient", Transient("embed", base), KindTransient},
		{"partial", Partial("ocr", base), KindPartial},
		{"integrity", Integrityf("query", "tenant mismatch"), KindIntegrity},
		{"permanent", Permanent("classify", base), KindPermanent},
		{"wrapped transient", fmt.Errorf("outer: %w", Transient("embed", base)), KindTransient},
		{"plain error", base, 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(Transient("embed", errors.New("rate limit"))) {
		t.Error("transient errors must be retryable")
	}
	if IsRetryable(Integrityf("query", "cross-tenant result")) {
		t.Error("integrity faults must never be retryable")
	}
	if IsRetryable(Permanent("ocr", errors.New("unsupported file"))) {
		t.Error("permanent errors must not be retryable")
	}
}

func TestError_Unwrap(t *testing.T) {
	base := errors.New("cause")
	err := Transient("embed", base)

	if !errors.Is(err, base) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
}
