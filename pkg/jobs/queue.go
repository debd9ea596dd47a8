package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job wraps a typed payload with delivery bookkeeping.
type Job[T any] struct {
	ID       string
	Payload  T
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job.
type Handler[T any] func(context.Context, Job[T]) error

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	// RetryDelay is the base backoff; attempt n waits n*RetryDelay.
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Queue dispatches typed jobs to a fixed pool of goroutines.
type Queue[T any] struct {
	name    string
	handler Handler[T]
	cfg     QueueConfig

	jobs    chan Job[T]
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	retries sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewQueue builds a queue for the handler, filling config defaults.
func NewQueue[T any](name string, handler Handler[T], cfg QueueConfig) *Queue[T] {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue[T]{
		name:    name,
		handler: handler,
		cfg:     cfg,
		jobs:    make(chan Job[T], cfg.BufferSize),
	}
}

// Start launches the workers. Subsequent calls are no-ops.
func (q *Queue[T]) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.cfg.Logger.Info("queue started", zap.String("queue", q.name), zap.Int("workers", q.cfg.Workers))
}

// Stop cancels the workers and pending retries, then waits for them to exit.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.started = false
	q.mu.Unlock()

	q.wg.Wait()
	q.retries.Wait()
	q.cfg.Logger.Info("queue stopped", zap.String("queue", q.name))
}

// Enqueue submits a payload and returns the assigned job ID.
func (q *Queue[T]) Enqueue(payload T) (string, error) {
	job := Job[T]{ID: uuid.NewString(), Payload: payload, Enqueued: time.Now().UTC()}
	return job.ID, q.push(job)
}

// Pending reports the number of buffered jobs.
func (q *Queue[T]) Pending() int {
	return len(q.jobs)
}

func (q *Queue[T]) push(job Job[T]) error {
	q.mu.Lock()
	ctx, started := q.ctx, q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.jobs <- job:
		return nil
	}
}

func (q *Queue[T]) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			if err := q.handler(q.ctx, job); err != nil {
				q.retry(job, err)
			}
		}
	}
}

func (q *Queue[T]) retry(job Job[T], err error) {
	job.Attempt++
	log := q.cfg.Logger.With(zap.String("queue", q.name), zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
	if job.Attempt > q.cfg.MaxRetries {
		log.Error("job exceeded retries")
		return
	}
	log.Warn("job failed, retrying")

	delay := time.Duration(job.Attempt) * q.cfg.RetryDelay
	q.retries.Add(1)
	go func() {
		defer q.retries.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			if err := q.push(job); err != nil {
				log.Error("failed to requeue job", zap.NamedError("requeue_error", err))
			}
		}
	}()
}
