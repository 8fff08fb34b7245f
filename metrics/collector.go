// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package metrics

import (
	"math/rand/v2"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// reservoirSize is the per-shard latency sample capacity. Percentiles
	// are estimated from these samples, never from full recording.
	reservoirSize = 1000
)

// Stats is a point-in-time aggregate for one operation.
type Stats struct {
	Count    uint64
	Failures uint64
	Min      time.Duration
	Max      time.Duration
	Mean     time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
}

// Collector aggregates latency and outcome counts for one operation.
// Recording is sharded: concurrent writers land on different shards and
// never serialize behind a single lock. Aggregation happens lazily when a
// snapshot is taken.
type Collector struct {
	name   string
	shards []shard
	next   atomic.Uint64
}

type shard struct {
	mu         sync.Mutex
	count      uint64
	failures   uint64
	totalNanos int64
	minNanos   int64
	maxNanos   int64
	reservoir  []int64
	seen       uint64
	_          [8]byte // keep shards off each other's cache lines
}

func newCollector(name string) *Collector {
	n := runtime.GOMAXPROCS(0)
	if n < 2 {
		n = 2
	}
	c := &Collector{
		name:   name,
		shards: make([]shard, n),
	}
	for i := range c.shards {
		c.shards[i].minNanos = -1
	}
	return c
}

// Record adds one observation. failed marks the operation as unsuccessful;
// failed observations still contribute latency.
func (c *Collector) Record(elapsed time.Duration, failed bool) {
	s := &c.shards[c.next.Add(1)%uint64(len(c.shards))]
	nanos := elapsed.Nanoseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if failed {
		s.failures++
	}
	s.totalNanos += nanos
	if s.minNanos < 0 || nanos < s.minNanos {
		s.minNanos = nanos
	}
	if nanos > s.maxNanos {
		s.maxNanos = nanos
	}

	// Reservoir sampling keeps a uniform sample of all observations in
	// bounded memory.
	s.seen++
	if len(s.reservoir) < reservoirSize {
		s.reservoir = append(s.reservoir, nanos)
		return
	}
	if j := rand.Uint64N(s.seen); j < reservoirSize {
		s.reservoir[j] = nanos
	}
}

// Snapshot merges all shards into one aggregate. Percentiles are computed
// here, not on the record path.
func (c *Collector) Snapshot() Stats {
	var (
		stats   Stats
		total   int64
		minN    int64 = -1
		maxN    int64
		samples []int64
	)

	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		stats.Count += s.count
		stats.Failures += s.failures
		total += s.totalNanos
		if s.minNanos >= 0 && (minN < 0 || s.minNanos < minN) {
			minN = s.minNanos
		}
		if s.maxNanos > maxN {
			maxN = s.maxNanos
		}
		samples = append(samples, s.reservoir...)
		s.mu.Unlock()
	}

	if stats.Count == 0 {
		return stats
	}

	stats.Min = time.Duration(max(minN, 0))
	stats.Max = time.Duration(maxN)
	stats.Mean = time.Duration(total / int64(stats.Count))

	slices.Sort(samples)
	stats.P50 = percentile(samples, 0.50)
	stats.P95 = percentile(samples, 0.95)
	stats.P99 = percentile(samples, 0.99)
	return stats
}

// percentile reads the p-quantile from sorted samples.
func percentile(sorted []int64, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return time.Duration(sorted[idx])
}
