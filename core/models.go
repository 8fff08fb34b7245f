package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// TenantID identifies the tenant that owns a piece of data.
// Every stored chunk, embedding, classification and conversation carries one;
// data is never visible across tenant boundaries.
type TenantID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentStatus tracks a document through the processing pipeline.
type DocumentStatus int

const (
	// StatusPending means the document is uploaded but untouched.
	StatusPending DocumentStatus = iota + 1
	// StatusOCRRunning means page extraction is in progress.
	StatusOCRRunning
	// StatusOCRDone means text extraction finished (possibly partial).
	StatusOCRDone
	// StatusEmbeddingRunning means chunk embedding is in progress.
	StatusEmbeddingRunning
	// StatusReady means the document is searchable.
	StatusReady
	// StatusFailed is the terminal failure state.
	StatusFailed
)

// String returns the name form of the status.
func (s DocumentStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusOCRRunning:
		return "ocr_running"
	case StatusOCRDone:
		return "ocr_done"
	case StatusEmbeddingRunning:
		return "embedding_running"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CanTransition reports whether moving from s to next is a legal
// pipeline transition. StatusFailed is reachable from every state.
func (s DocumentStatus) CanTransition(next DocumentStatus) bool {
	if next == StatusFailed {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusOCRRunning
	case StatusOCRRunning:
		return next == StatusOCRDone
	case StatusOCRDone:
		return next == StatusEmbeddingRunning
	case StatusEmbeddingRunning:
		return next == StatusReady
	default:
		return false
	}
}

// Document represents an uploaded file owned by exactly one tenant.
// The raw file lives in the external file store; the pipeline only
// mutates processing state and extracted text.
type Document struct {
	Id            ID
	Tenant        TenantID
	Name          string
	PageCount     int
	Status        DocumentStatus
	Text          string // Full extracted text (populated by the OCR stage)
	OCRConfidence float32
	OCRPartial    bool // Some pages failed after retries; Text contains gap markers
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Page is a document page's extracted text. Pages are ephemeral: they exist
// only between extraction and reassembly into Document.Text.
type Page struct {
	Index      int
	Text       string
	Confidence float32
	Failed     bool
	Retries    int
}

// Chunk is a tenant-tagged, document-tagged span of extracted text sized for
// embedding and retrieval. Chunks are immutable once created; re-embedding
// supersedes rather than mutates.
type Chunk struct {
	DocumentId ID
	Tenant     TenantID
	Index      int
	Text       string
	TokenCount int
}

// ClassificationResult holds the single-document analysis produced by the
// classification stage. One per document; reclassification overwrites.
type ClassificationResult struct {
	DocumentId     ID
	Tenant         TenantID
	DocumentType   string
	LegalArea      string
	Parties        []string
	ImportantDates []string
	Urgency        string
	Summary        string
	Keywords       []string
	Confidence     float32 // In [0,1]
	Model          string
	Elapsed        time.Duration
	ClassifiedAt   time.Time
}

// TurnRole identifies the author of a conversation turn.
type TurnRole int

const (
	// RoleUser represents the human asking questions.
	RoleUser TurnRole = iota + 1
	// RoleAssistant represents generated answers.
	RoleAssistant
)

// Citation points a generated answer back at the chunk that grounds it.
type Citation struct {
	DocumentId ID
	ChunkIndex int
	Score      float32
}

// ConversationTurn is one message in a conversation. Turns are append-only;
// a conversation belongs to exactly one tenant.
type ConversationTurn struct {
	Id             string // UUID
	ConversationId ID
	Tenant         TenantID
	Role           TurnRole
	Text           string
	Citations      []Citation
	Grounded       bool // False when retrieval found nothing to cite
	Degraded       bool
	CreatedAt      time.Time
}

// VectorEntry is the stored form of one embedded chunk in the vector index.
// The tenant is recorded redundantly with the key so reads can verify that
// a returned entry belongs to the partition it was fetched from.
type VectorEntry struct {
	Tenant       TenantID
	DocumentId   ID
	ChunkIndex   int
	Vector       []float32
	DocCreatedAt time.Time
}

// VectorMatch is a ranked hit from the tenant-scoped vector index.
type VectorMatch struct {
	DocumentId   ID
	ChunkIndex   int
	Score        float32
	DocCreatedAt time.Time
}
