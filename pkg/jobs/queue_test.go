package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDrainsOnStop(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.ID)
		return nil
	}, QueueConfig{BufferSize: 8})

	q.Start(context.Background())
	require.True(t, q.Running())
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(Job{ID: id}))
	}
	q.Stop()

	assert.False(t, q.Running())
	assert.Equal(t, []string{"a", "b", "c"}, seen)
	assert.Error(t, q.Enqueue(Job{ID: "late"}))
}

func TestQueueNotStarted(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "x"}))
	q.Stop()
}

func TestQueueFull(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("full", func(ctx context.Context, job Job) error {
		<-block
		return nil
	}, QueueConfig{BufferSize: 1})
	q.Start(context.Background())

	var full bool
	for i := 0; i < 5; i++ {
		if err := q.Enqueue(Job{}); errors.Is(err, ErrQueueFull) {
			full = true
			break
		}
	}
	close(block)
	q.Stop()
	assert.True(t, full)
}

func TestQueueHandlerErrorIsNotRetried(t *testing.T) {
	var calls int
	q := NewQueue("fail", func(ctx context.Context, job Job) error {
		calls++
		return errors.New("sink down")
	}, QueueConfig{})
	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job{ID: "n1"}))
	q.Stop()
	assert.Equal(t, 1, calls)
}

func TestQueueDrainSurvivesCancelledStartContext(t *testing.T) {
	gate := make(chan struct{})
	var (
		mu        sync.Mutex
		delivered int
	)
	q := NewQueue("drain", func(ctx context.Context, job Job) error {
		<-gate
		if err := ctx.Err(); err != nil {
			return err
		}
		mu.Lock()
		delivered++
		mu.Unlock()
		return nil
	}, QueueConfig{BufferSize: 8})

	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{}))
	}

	cancel()
	close(gate)
	q.Stop()

	assert.Equal(t, 5, delivered)
}
