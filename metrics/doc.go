// Package metrics collects per-operation counters and latency aggregates.
//
// Each operation gets a sharded collector: concurrent recordings spread
// over per-shard locks, so hot paths never serialize on one mutex.
// Aggregation work (merging shards, sorting the latency reservoir for
// percentiles) is deferred to snapshot time. The registry also keeps a
// bounded window of provider rate limit incidents and can expose
// everything as a prometheus.Collector.
package metrics
