package jobs

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

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	done := make(chan struct{}, 3)

	q := NewQueue("test", func(ctx context.Context, job Job[string]) error {
		mu.Lock()
		seen[job.Payload] = true
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for _, p := range []string{"a", "b", "c"} {
		id, err := q.Enqueue(p)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, seen)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls int32
	done := make(chan Job[int], 1)

	q := NewQueue("retry", func(ctx context.Context, job Job[int]) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("boom")
		}
		done <- job
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(7)
	require.NoError(t, err)

	select {
	case job := <-done:
		assert.Equal(t, 2, job.Attempt)
		assert.Equal(t, 7, job.Payload)
	case <-time.After(time.Second):
		t.Fatal("job was not retried")
	}
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	q := NewQueue("give-up", func(ctx context.Context, job Job[int]) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}, QueueConfig{MaxRetries: 1, RetryDelay: time.Millisecond})
	q.Start(context.Background())

	_, err := q.Enqueue(1)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	q.Stop()
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, job Job[int]) error { return nil }, QueueConfig{})
	_, err := q.Enqueue(1)
	assert.Error(t, err)
}
