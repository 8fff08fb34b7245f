package index

import (
	"encoding/binary"

	"github.com/poiesic/docpipe/core"
)

// Key prefix for vector entries
const vectorPrefix = "vec"

// makeVectorKey generates a key for one embedded chunk.
// Format: prefix:tenant:documentID:chunkIndex
func makeVectorKey(tenant core.TenantID, documentID core.ID, chunkIndex int) []byte {
	prefix := vectorPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 24 // 8 bytes each for tenant, document ID and chunk index
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(tenant))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkIndex))
	return buf
}

// makeTenantPrefix generates the partition prefix for one tenant.
// Every read iterates under this prefix and nothing else.
func makeTenantPrefix(tenant core.TenantID) []byte {
	prefix := vectorPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tenant))
	return buf
}

// makeDocumentPrefix generates the prefix covering all chunks of a document.
func makeDocumentPrefix(tenant core.TenantID, documentID core.ID) []byte {
	prefix := vectorPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tenant))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	return buf
}
