package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestDocumentStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from DocumentStatus
		to   DocumentStatus
		want bool
	}{
		{"pending to ocr_running", StatusPending, StatusOCRRunning, true},
		{"ocr_running to ocr_done", StatusOCRRunning, StatusOCRDone, true},
		{"ocr_done to embedding_running", StatusOCRDone, StatusEmbeddingRunning, true},
		{"embedding_running to ready", StatusEmbeddingRunning, StatusReady, true},
		{"pending skips ocr", StatusPending, StatusOCRDone, false},
		{"ready is terminal", StatusReady, StatusOCRRunning, false},
		{"failed is terminal", StatusFailed, StatusPending, false},
		{"any state can fail", StatusEmbeddingRunning, StatusFailed, true},
		{"pending can fail", StatusPending, StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestDocumentStatus_String(t *testing.T) {
	if StatusOCRRunning.String() != "ocr_running" {
		t.Errorf("unexpected status name: %s", StatusOCRRunning)
	}
	if StatusReady.String() != "ready" {
		t.Errorf("unexpected status name: %s", StatusReady)
	}
	if DocumentStatus(99).String() != "unknown" {
		t.Errorf("out of range status should be unknown")
	}
}
