package executor

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
)

// Executor is a shared, bounded worker pool used by all pipeline stages to
// cap concurrent external calls. Submissions block when the pool is
// saturated, so producers slow down instead of spawning unbounded work.
type Executor struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures an Executor.
type Option func(*options)

type options struct {
	size   int
	logger *slog.Logger
}

// WithSize sets the maximum number of concurrently running tasks.
// Default is 2 workers per CPU, with a minimum of 4.
func WithSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.size = size
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an Executor with a bounded worker pool.
func New(opts ...Option) (*Executor, error) {
	o := &options{
		size:   defaultSize(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	pool, err := ants.NewPool(o.size)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With("component", "executor")
	logger.Debug("executor created", "workers", o.size)

	return &Executor{
		pool:   pool,
		logger: logger,
	}, nil
}

func defaultSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	return size
}

// Submit runs task on the pool and blocks until it finishes, returning the
// task's error. If ctx is already done when Submit is called, the context
// error is returned and the task never runs. Once the pool accepts the
// task, Submit waits for it to complete even if ctx is canceled meanwhile;
// cancellation reaches the task through ctx, it does not cut the wait
// short.
func (e *Executor) Submit(ctx context.Context, task func(ctx context.Context) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	done := make(chan error, 1)
	if err := e.pool.Submit(func() {
		done <- task(ctx)
	}); err != nil {
		if err == ants.ErrPoolClosed {
			return ErrClosed
		}
		return err
	}

	return <-done
}

// Running returns the number of tasks currently executing.
func (e *Executor) Running() int {
	return e.pool.Running()
}

// Cap returns the concurrency bound.
func (e *Executor) Cap() int {
	return e.pool.Cap()
}

// Release shuts the executor down. In-flight tasks drain; subsequent
// submissions are rejected with ErrClosed.
func (e *Executor) Release() {
	e.pool.Release()
}
