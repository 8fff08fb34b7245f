package metrics

import (
	"sync"
	"time"
)

const (
	// maxRateLimitEvents bounds the in-memory rate limit log.
	maxRateLimitEvents = 256
)

// RateLimitEvent records one provider throttling incident.
type RateLimitEvent struct {
	Operation  string
	Detail     string
	OccurredAt time.Time
}

// Registry holds one collector per operation plus the rate limit event
// log. Collectors are created lazily on first use and live for the
// registry's lifetime.
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]*Collector
	events     []RateLimitEvent
}

// NewRegistry creates an empty metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]*Collector),
	}
}

// Collector returns the collector for an operation, creating it on first
// use.
func (r *Registry) Collector(operation string) *Collector {
	r.mu.RLock()
	c, ok := r.collectors[operation]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.collectors[operation]; ok {
		return c
	}
	c = newCollector(operation)
	r.collectors[operation] = c
	return c
}

// Observe is a convenience wrapper: it records elapsed time since started
// on the operation's collector.
func (r *Registry) Observe(operation string, started time.Time, failed bool) {
	r.Collector(operation).Record(time.Since(started), failed)
}

// RecordRateLimit logs one throttling incident. The log is a bounded
// window; old events fall off the front.
func (r *Registry) RecordRateLimit(operation, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, RateLimitEvent{
		Operation:  operation,
		Detail:     detail,
		OccurredAt: time.Now(),
	})
	if len(r.events) > maxRateLimitEvents {
		r.events = r.events[len(r.events)-maxRateLimitEvents:]
	}
}

// RateLimitEvents returns a copy of the current event window.
func (r *Registry) RateLimitEvents() []RateLimitEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RateLimitEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Snapshot aggregates every collector.
func (r *Registry) Snapshot() map[string]Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Stats, len(r.collectors))
	for name, c := range r.collectors {
		out[name] = c.Snapshot()
	}
	return out
}
