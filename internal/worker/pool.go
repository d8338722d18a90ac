package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueFull is returned by Submit when no slot is free.
var ErrQueueFull = errors.New("delivery queue is full")

// ErrStopped is returned by Submit once the pool is not running.
var ErrStopped = errors.New("delivery pool is stopped")

// Job is one unit of side-effect delivery such as a live push or a webhook call.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pool runs submitted jobs on a fixed number of workers. Submit never blocks
// the caller: when the queue is full the job is dropped and logged.
type Pool struct {
	workers   int
	queueSize int
	timeout   time.Duration
	logger    *slog.Logger

	jobs    chan Job
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.RWMutex
	running bool
}

// NewPool constructs delivery worker pool.
func NewPool(workers, queueSize int, timeout time.Duration, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		workers:   workers,
		queueSize: queueSize,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start launches background workers.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	p.jobs = make(chan Job, p.queueSize)
	p.running = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx, p.jobs)
	}
}

// Submit queues job for delivery.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		p.logger.Warn("delivery dropped, pool stopped", slog.String("job", job.Name))
		return ErrStopped
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		p.logger.Warn("delivery dropped, queue full", slog.String("job", job.Name))
		return ErrQueueFull
	}
}

// Stop drains queued jobs and waits for all workers to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()
}

func (p *Pool) worker(ctx context.Context, jobs <-chan Job) {
	defer p.wg.Done()
	for job := range jobs {
		p.handle(ctx, job)
	}
}

func (p *Pool) handle(ctx context.Context, job Job) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("delivery panicked", slog.String("job", job.Name), slog.Any("panic", r))
		}
	}()

	if err := job.Run(ctx); err != nil {
		p.logger.Error("delivery failed", slog.String("job", job.Name), slog.String("error", err.Error()))
	}
}
