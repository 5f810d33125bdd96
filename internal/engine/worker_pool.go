package engine

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned when submitting to a drained pool.
var ErrPoolClosed = errors.New("worker pool closed")

// job is the unit of work dispatched to a worker.
type job[T, R any] struct {
	payload T
	result  chan<- jobResult[R]
}

type jobResult[R any] struct {
	value R
	err   error
}

// workerPool is a fixed-size goroutine pool with a bounded input queue.
// With one worker, jobs run strictly in submission order.
type workerPool[T, R any] struct {
	ctx     context.Context
	queue   chan job[T, R]
	process func(ctx context.Context, t T) (R, error)
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// newWorkerPool creates and starts a pool with n goroutines and queue capacity cap.
func newWorkerPool[T, R any](ctx context.Context, n, cap int, fn func(context.Context, T) (R, error)) *workerPool[T, R] {
	p := &workerPool[T, R]{
		ctx:     ctx,
		queue:   make(chan job[T, R], cap),
		process: fn,
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.run(ctx)
		}()
	}
	return p
}

func (p *workerPool[T, R]) run(ctx context.Context) {
	for {
		select {
		case j, ok := <-p.queue:
			if !ok {
				return
			}
			v, err := p.process(ctx, j.payload)
			if j.result != nil {
				j.result <- jobResult[R]{value: v, err: err}
			}
		case <-ctx.Done():
			return
		}
	}
}

// Submit enqueues a job without blocking (returns false if full or closed).
func (p *workerPool[T, R]) Submit(t T) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.queue <- job[T, R]{payload: t}:
		return true
	default:
		return false
	}
}

// Do enqueues a job, waiting for queue space, and returns its result.
// If ctx ends after the job was enqueued the job still runs; only the
// wait for its result is abandoned.
func (p *workerPool[T, R]) Do(ctx context.Context, t T) (R, error) {
	var zero R
	res := make(chan jobResult[R], 1)

	if err := p.enqueue(ctx, job[T, R]{payload: t, result: res}); err != nil {
		return zero, err
	}

	select {
	case r := <-res:
		return r.value, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-p.ctx.Done():
		return zero, ErrPoolClosed
	}
}

func (p *workerPool[T, R]) enqueue(ctx context.Context, j job[T, R]) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.queue <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

// Drain closes the queue and waits for all workers to finish.
// Queued jobs still run unless the pool context has ended.
func (p *workerPool[T, R]) Drain() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// QueueLen returns how many jobs are currently queued.
func (p *workerPool[T, R]) QueueLen() int {
	return len(p.queue)
}

// QueueCap returns the total queue capacity.
func (p *workerPool[T, R]) QueueCap() int {
	return cap(p.queue)
}
