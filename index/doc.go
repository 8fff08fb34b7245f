// Package index implements the tenant-partitioned vector index.
//
// Entries are stored in BadgerDB under keys prefixed by tenant id, so a
// query physically cannot iterate outside its own tenant's partition.
// Each stored entry also records its tenant redundantly; reads verify it
// and treat any mismatch as data corruption rather than a near-miss.
//
// Similarity is cosine over unit-normalized vectors, computed as a dot
// product. Matches below the similarity floor are discarded before
// ranking.
package index
