package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type indexedJob struct {
	index int
	job   Job
}

// Pool runs jobs on a fixed number of workers and returns results in submission order
type Pool struct {
	workers    int
	jobQueue   chan indexedJob
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	mu       sync.Mutex
	results  []Result
	closed   bool
	waitOnce sync.Once
}

// NewPool creates a pool bound to ctx. Cancelling ctx stops the workers.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan indexedJob, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case ij, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := ij.job.Execute(p.ctx)
			p.mu.Lock()
			p.results[ij.index] = result
			p.mu.Unlock()
		}
	}
}

// Submit queues a job and returns its result slot, or -1 once the pool is stopped.
// Submit and Wait must be called from the same goroutine.
func (p *Pool) Submit(job Job) int {
	p.mu.Lock()
	if p.closed || p.ctx.Err() != nil {
		p.mu.Unlock()
		return -1
	}
	index := len(p.results)
	p.results = append(p.results, nil)
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return -1
	case p.jobQueue <- indexedJob{index: index, job: job}:
		return index
	}
}

// Wait closes the queue, waits for the workers and returns results by slot.
// Slots whose job never ran (after Shutdown) are nil.
func (p *Pool) Wait() []Result {
	p.waitOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.jobQueue)
	})
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Result(nil), p.results...)
}

// Shutdown cancels running work and waits for the workers to exit
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Run executes jobs on a temporary pool. The result has one slot per job, in job
// order; a slot is nil when its job never ran because ctx ended first.
func Run(ctx context.Context, workers int, jobs []Job) []Result {
	pool := NewPool(ctx, workers)
	pool.Start()
	defer pool.cancelFunc()

	slots := make([]int, len(jobs))
	for i, job := range jobs {
		slots[i] = pool.Submit(job)
	}
	done := pool.Wait()

	results := make([]Result, len(jobs))
	for i, slot := range slots {
		if slot >= 0 && slot < len(done) {
			results[i] = done[slot]
		}
	}
	return results
}
