// Package cache provides the shared embedding and classification caches.
//
// The cache is an explicit, injectable service object backed by ristretto:
// cost-bounded (approximate byte budget), TTL-expiring and safe for
// concurrent use without a global lock, so one tenant's burst cannot stall
// another tenant's lookups. Cache keys always fold in the tenant id; see
// ContentKey.
package cache
