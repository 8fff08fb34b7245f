package ai

import (
	"context"
	"time"
)

// CallContext derives a context bounding a single provider call, so one
// stalled request cannot hold a whole stage open. A non-positive timeout
// returns ctx unchanged with a no-op cancel.
func CallContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
