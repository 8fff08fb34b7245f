package metrics

import (
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_BasicAggregates(t *testing.T) {
	c := newCollector("ocr")

	c.Record(10*time.Millisecond, false)
	c.Record(20*time.Millisecond, false)
	c.Record(30*time.Millisecond, true)

	stats := c.Snapshot()
	assert.Equal(t, uint64(3), stats.Count)
	assert.Equal(t, uint64(1), stats.Failures)
	assert.Equal(t, 10*time.Millisecond, stats.Min)
	assert.Equal(t, 30*time.Millisecond, stats.Max)
	assert.Equal(t, 20*time.Millisecond, stats.Mean)
}

func TestCollector_EmptySnapshot(t *testing.T) {
	stats := newCollector("idle").Snapshot()
	assert.Zero(t, stats.Count)
	assert.Zero(t, stats.P99)
}

func TestCollector_Percentiles(t *testing.T) {
	c := newCollector("embedding")
	for i := 1; i <= 100; i++ {
		c.Record(time.Duration(i)*time.Millisecond, false)
	}

	stats := c.Snapshot()
	// Reservoirs hold all 100 samples, so quantiles are exact.
	assert.InDelta(t, 50, stats.P50.Milliseconds(), 2)
	assert.InDelta(t, 95, stats.P95.Milliseconds(), 2)
	assert.InDelta(t, 99, stats.P99.Milliseconds(), 2)
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	c := newCollector("chat")

	const goroutines = 16
	const perGoroutine = 500

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				c.Record(time.Millisecond, i%10 == 0)
			}
		}()
	}
	wg.Wait()

	stats := c.Snapshot()
	assert.Equal(t, uint64(goroutines*perGoroutine), stats.Count)
	assert.Equal(t, uint64(goroutines*perGoroutine/10), stats.Failures)
}

func TestCollector_ReservoirStaysBounded(t *testing.T) {
	c := newCollector("classification")
	for i := 0; i < 10*reservoirSize; i++ {
		c.Record(time.Duration(i)*time.Microsecond, false)
	}

	for i := range c.shards {
		c.shards[i].mu.Lock()
		assert.LessOrEqual(t, len(c.shards[i].reservoir), reservoirSize)
		c.shards[i].mu.Unlock()
	}

	stats := c.Snapshot()
	assert.Equal(t, uint64(10*reservoirSize), stats.Count)
	assert.Positive(t, stats.P95)
}

func TestRegistry_LazyCollectors(t *testing.T) {
	r := NewRegistry()

	first := r.Collector("ocr")
	second := r.Collector("ocr")
	assert.Same(t, first, second)

	r.Observe("embedding", time.Now().Add(-time.Millisecond), false)
	snapshot := r.Snapshot()
	assert.Contains(t, snapshot, "ocr")
	assert.Contains(t, snapshot, "embedding")
	assert.Equal(t, uint64(1), snapshot["embedding"].Count)
}

func TestRegistry_RateLimitWindow(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < maxRateLimitEvents+50; i++ {
		r.RecordRateLimit("embedding", fmt.Sprintf("429 number %d", i))
	}

	events := r.RateLimitEvents()
	require.Len(t, events, maxRateLimitEvents)
	// Oldest events fell off the front.
	assert.Equal(t, "429 number 50", events[0].Detail)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			op := fmt.Sprintf("op-%d", g%3)
			for i := 0; i < 200; i++ {
				r.Collector(op).Record(time.Millisecond, false)
				r.RecordRateLimit(op, "throttled")
				r.Snapshot()
			}
		}(g)
	}
	wg.Wait()

	var total uint64
	for _, stats := range r.Snapshot() {
		total += stats.Count
	}
	assert.Equal(t, uint64(8*200), total)
}

func TestPrometheusHandler(t *testing.T) {
	r := NewRegistry()
	r.Collector("ocr").Record(25*time.Millisecond, false)
	r.Collector("ocr").Record(35*time.Millisecond, true)
	r.RecordRateLimit("embedding", "429")

	server := httptest.NewServer(Handler(r))
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `docpipe_operations_total{operation="ocr"} 2`)
	assert.Contains(t, text, `docpipe_operation_failures_total{operation="ocr"} 1`)
	assert.Contains(t, text, `docpipe_operation_latency_seconds{operation="ocr",quantile="0.5"}`)
	assert.Contains(t, text, "docpipe_rate_limit_events 1")
}
