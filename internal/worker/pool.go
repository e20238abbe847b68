package worker

import (
	"context"
	"sort"
	"sync"
)

// Task is a unit of work executed by the pool
type Task[T any] func(ctx context.Context) T

type indexed[T any] struct {
	index int
	value T
}

// Pool runs tasks on a fixed number of workers and returns results in
// submission order
type Pool[T any] struct {
	workers    int
	jobQueue   chan indexed[Task[T]]
	results    chan indexed[T]
	collected  []indexed[T]
	collectWG  sync.WaitGroup
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	next       int
	closeOnce  sync.Once
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool[T any](ctx context.Context, workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[T]{
		workers:    workers,
		jobQueue:   make(chan indexed[Task[T]], workers*2),
		results:    make(chan indexed[T], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers and the result collector
func (p *Pool[T]) Start() {
	p.collectWG.Add(1)
	go func() {
		defer p.collectWG.Done()
		for r := range p.results {
			p.collected = append(p.collected, r)
		}
	}()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.results <- indexed[T]{index: job.index, value: job.value(p.ctx)}
		}
	}
}

// Submit queues a task. It returns false if the pool was shut down.
// Submit must not be called concurrently with itself or after Wait.
func (p *Pool[T]) Submit(task Task[T]) bool {
	if p.ctx.Err() != nil {
		return false
	}
	job := indexed[Task[T]]{index: p.next, value: task}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		p.next++
		return true
	}
}

// Wait waits for all submitted tasks and returns their results in
// submission order. Tasks dropped by Shutdown are missing from the result.
func (p *Pool[T]) Wait() []T {
	p.closeOnce.Do(func() { close(p.jobQueue) })
	p.wg.Wait()
	close(p.results)
	p.collectWG.Wait()
	p.cancelFunc()

	sort.Slice(p.collected, func(i, j int) bool {
		return p.collected[i].index < p.collected[j].index
	})

	out := make([]T, len(p.collected))
	for i, r := range p.collected {
		out[i] = r.value
	}
	return out
}

// Shutdown stops workers after their current task; call Wait afterwards
// to collect what finished
func (p *Pool[T]) Shutdown() {
	p.cancelFunc()
}
