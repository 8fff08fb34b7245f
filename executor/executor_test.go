package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_Submit(t *testing.T) {
	exec, err := New(WithSize(2))
	require.NoError(t, err)
	defer exec.Release()

	ran := false
	err = exec.Submit(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestExecutor_SubmitReturnsTaskError(t *testing.T) {
	exec, err := New(WithSize(1))
	require.NoError(t, err)
	defer exec.Release()

	taskErr := errors.New("task failed")
	err = exec.Submit(context.Background(), func(ctx context.Context) error {
		return taskErr
	})
	assert.Equal(t, taskErr, err)
}

func TestExecutor_BoundedConcurrency(t *testing.T) {
	const bound = 3
	exec, err := New(WithSize(bound))
	require.NoError(t, err)
	defer exec.Release()

	var current, peak int64
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = exec.Submit(context.Background(), func(ctx context.Context) error {
				n := atomic.AddInt64(&current, 1)
				for {
					p := atomic.LoadInt64(&peak)
					if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(bound),
		"no more than %d tasks may run at once", bound)
}

func TestExecutor_CanceledContextSkipsDispatch(t *testing.T) {
	exec, err := New(WithSize(1))
	require.NoError(t, err)
	defer exec.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err = exec.Submit(ctx, func(ctx context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran, "canceled submissions must not dispatch")
}

func TestExecutor_AcceptedTaskRunsToCompletion(t *testing.T) {
	exec, err := New(WithSize(1))
	require.NoError(t, err)
	defer exec.Release()

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	go func() {
		<-started
		cancel()
	}()

	taskErr := errors.New("finished after cancel")
	var sawCancel bool
	err = exec.Submit(ctx, func(ctx context.Context) error {
		close(started)
		// Mid-run cancellation arrives through ctx but must not cut
		// Submit's wait short.
		<-ctx.Done()
		sawCancel = true
		return taskErr
	})

	assert.Equal(t, taskErr, err, "Submit must report the task's own result, not the context error")
	assert.True(t, sawCancel)
}

func TestExecutor_SubmitAfterRelease(t *testing.T) {
	exec, err := New(WithSize(1))
	require.NoError(t, err)
	exec.Release()

	err = exec.Submit(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestExecutor_DefaultSize(t *testing.T) {
	exec, err := New()
	require.NoError(t, err)
	defer exec.Release()

	assert.GreaterOrEqual(t, exec.Cap(), 4)
}
