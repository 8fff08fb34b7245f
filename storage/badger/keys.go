package badger

import (
	"encoding/binary"

	"github.com/poiesic/docpipe/core"
)

// Key prefixes for different data types. Every key embeds the owning
// tenant right after the prefix, so per-tenant iteration never touches
// another tenant's rows.
const (
	documentPrefix       = "docrec"
	chunkPrefix          = "chkrec"
	classificationPrefix = "clsrec"
	turnPrefix           = "convrec"
	turnIDSeq            = "convrecseq"
)

// appendUint64 writes v in BigEndian order so lexicographic sort works
// correctly.
func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// makeDocumentKey generates a key for a document.
// Format: prefix:tenant:id
func makeDocumentKey(tenant core.TenantID, id core.ID) []byte {
	buf := []byte(documentPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	return appendUint64(buf, uint64(id))
}

// makeDocumentTenantPrefix generates the prefix covering all of a tenant's
// documents.
func makeDocumentTenantPrefix(tenant core.TenantID) []byte {
	buf := []byte(documentPrefix + ":")
	return appendUint64(buf, uint64(tenant))
}

// makeChunkKey generates a key for a chunk.
// Format: prefix:tenant:documentID:index
func makeChunkKey(tenant core.TenantID, documentID core.ID, index int) []byte {
	buf := []byte(chunkPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	buf = appendUint64(buf, uint64(documentID))
	return appendUint64(buf, uint64(index))
}

// makeChunkDocumentPrefix generates the prefix covering all chunks of a
// document.
func makeChunkDocumentPrefix(tenant core.TenantID, documentID core.ID) []byte {
	buf := []byte(chunkPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	return appendUint64(buf, uint64(documentID))
}

// makeClassificationKey generates a key for a classification result.
// Format: prefix:tenant:documentID
func makeClassificationKey(tenant core.TenantID, documentID core.ID) []byte {
	buf := []byte(classificationPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	return appendUint64(buf, uint64(documentID))
}

// makeTurnKey generates a key for a conversation turn.
// Format: prefix:tenant:conversationID:seq
// The sequence number keeps turns in append order.
func makeTurnKey(tenant core.TenantID, conversationID core.ID, seq uint64) []byte {
	buf := []byte(turnPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	buf = appendUint64(buf, uint64(conversationID))
	return appendUint64(buf, seq)
}

// makeTurnConversationPrefix generates the prefix covering all turns of a
// conversation.
func makeTurnConversationPrefix(tenant core.TenantID, conversationID core.ID) []byte {
	buf := []byte(turnPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	return appendUint64(buf, uint64(conversationID))
}
