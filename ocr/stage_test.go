package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageImages(n int) [][]byte {
	images := make([][]byte, n)
	for i := range images {
		images[i] = []byte(fmt.Sprintf("page-%d", i))
	}
	return images
}

func TestStage_AllPagesSucceed(t *testing.T) {
	engine := &fakeEngine{
		name: "fake",
		recognize: func(ctx context.Context, image []byte) (string, float32, error) {
			return "text of " + string(image), 0.9, nil
		},
	}
	stage, err := NewStage(engine, WithRetryDelay(0))
	require.NoError(t, err)

	result, err := stage.Process(context.Background(), 1, 42, pageImages(3))
	require.NoError(t, err)

	assert.Equal(t, "text of page-0\n\ntext of page-1\n\ntext of page-2", result.Text)
	assert.False(t, result.Partial)
	assert.InDelta(t, 0.9, result.Confidence, 0.0001)
	require.Len(t, result.Pages, 3)
}

func TestStage_OneUnreadablePageIsPartial(t *testing.T) {
	var mu sync.Mutex
	engine := &fakeEngine{name: "fake"}
	engine.recognize = func(ctx context.Context, image []byte) (string, float32, error) {
		mu.Lock()
		defer mu.Unlock()
		if string(image) == "page-4" {
			return "", 0, errors.New("unreadable scan")
		}
		return "text of " + string(image), 0.8, nil
	}

	exec, err := executor.New(executor.WithSize(4))
	require.NoError(t, err)
	defer exec.Release()

	stage, err := NewStage(engine, WithExecutor(exec), WithRetryDelay(0))
	require.NoError(t, err)

	result, err := stage.Process(context.Background(), 1, 42, pageImages(10))
	require.NoError(t, err)

	assert.True(t, result.Partial)
	assert.Contains(t, result.Text, "[page 5 unreadable]")
	assert.True(t, result.Pages[4].Failed)
	assert.Equal(t, DefaultMaxPageRetries, result.Pages[4].Retries)

	// Surviving pages keep their order around the gap.
	lines := strings.Split(result.Text, "\n\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "text of page-3", lines[3])
	assert.Equal(t, "text of page-5", lines[5])
}

func TestStage_PageSucceedsOnRetry(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	engine := &fakeEngine{name: "fake"}
	engine.recognize = func(ctx context.Context, image []byte) (string, float32, error) {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 2 {
			return "", 0, errors.New("transient read failure")
		}
		return "recovered", 0.7, nil
	}

	stage, err := NewStage(engine, WithRetryDelay(time.Millisecond))
	require.NoError(t, err)

	result, err := stage.Process(context.Background(), 1, 42, pageImages(1))
	require.NoError(t, err)

	assert.False(t, result.Partial)
	assert.Equal(t, "recovered", result.Pages[0].Text)
	assert.Equal(t, 1, result.Pages[0].Retries)
}

func TestStage_AllPagesFailed(t *testing.T) {
	engine := failingEngine("fake", errors.New("scanner offline"))
	stage, err := NewStage(engine, WithRetryDelay(0))
	require.NoError(t, err)

	_, err = stage.Process(context.Background(), 1, 42, pageImages(3))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllPagesFailed)
	assert.Equal(t, core.KindTransient, core.KindOf(err))
}

func TestStage_SlowEngineCallTimesOut(t *testing.T) {
	engine := &fakeEngine{name: "fake"}
	engine.recognize = func(ctx context.Context, image []byte) (string, float32, error) {
		<-ctx.Done()
		return "", 0, ctx.Err()
	}

	stage, err := NewStage(engine,
		WithMaxPageRetries(1),
		WithRetryDelay(0),
		WithCallTimeout(20*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = stage.Process(context.Background(), 1, 42, pageImages(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllPagesFailed)
	assert.Less(t, time.Since(start), 2*time.Second, "a stalled engine must not hold the page open")
}

func TestStage_ConfidenceExcludesFailedPages(t *testing.T) {
	var mu sync.Mutex
	engine := &fakeEngine{name: "fake"}
	engine.recognize = func(ctx context.Context, image []byte) (string, float32, error) {
		mu.Lock()
		defer mu.Unlock()
		switch string(image) {
		case "page-0":
			return "a", 1.0, nil
		case "page-1":
			return "", 0, errors.New("unreadable")
		default:
			return "c", 0.5, nil
		}
	}

	stage, err := NewStage(engine, WithRetryDelay(0))
	require.NoError(t, err)

	result, err := stage.Process(context.Background(), 1, 42, pageImages(3))
	require.NoError(t, err)
	assert.InDelta(t, 0.75, result.Confidence, 0.0001)
}

func TestStage_Validation(t *testing.T) {
	stage, err := NewStage(staticEngine("fake", "x", 1))
	require.NoError(t, err)

	_, err = stage.Process(context.Background(), 0, 42, pageImages(1))
	assert.ErrorIs(t, err, core.ErrMissingTenant)

	_, err = stage.Process(context.Background(), 1, 42, nil)
	assert.ErrorIs(t, err, ErrNoPages)

	_, err = NewStage(nil)
	assert.ErrorIs(t, err, ErrNoEngines)
}

func TestStage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stage, err := NewStage(staticEngine("fake", "x", 1), WithRetryDelay(0))
	require.NoError(t, err)

	_, err = stage.Process(ctx, 1, 42, pageImages(2))
	assert.ErrorIs(t, err, context.Canceled)
}
