// Package worker downloads queued pokedex numbers into the document cache.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pokelookup/internal/adapters/mq/queue"
	"github.com/okian/pokelookup/pkg/logger"
	"github.com/okian/pokelookup/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultRetries      = 2
	defaultBackoff      = 250 * time.Millisecond
	poolShutdownTimeout = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = queue.Job

// Fetcher downloads the raw document for a pokedex number.
type Fetcher interface {
	FetchPokemon(ctx context.Context, id int) ([]byte, error)
}

// Sink stores a downloaded document.
type Sink interface {
	Put(ctx context.Context, id int, doc []byte) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until the queue drains or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is drained.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	fetcher Fetcher
	sink    Sink
	name    string

	retries   int
	backoff   time.Duration
	retryable func(error) bool
	onResult  func(id int, err error)

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, fetcher Fetcher, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		fetcher:   fetcher,
		sink:      sink,
		name:      "worker",
		retries:   defaultRetries,
		backoff:   defaultBackoff,
		retryable: func(error) bool { return true },
		onResult:  func(int, error) {},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	// Cancelling releases the queue's forwarding goroutine on early exit.
	dqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := w.queue.Dequeue(dqCtx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			err := w.process(ctx, job)
			if err != nil {
				w.logger.Error(ctx, "fetch job failed", logger.Int("id", job.ID), logger.Error(err))
			}
			w.onResult(job.ID, err)
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() { metrics.RecordWorkerProcessingLatency(time.Since(start)) }()

	doc, err := w.fetchWithRetry(ctx, job.ID)
	if err != nil {
		metrics.RecordWorkerError("fetch")
		return err
	}
	if err := w.sink.Put(ctx, job.ID, doc); err != nil {
		metrics.RecordWorkerError("store")
		return fmt.Errorf("store #%d: %w", job.ID, err)
	}
	return nil
}

func (w *InMemoryWorker) fetchWithRetry(ctx context.Context, id int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= w.retries; attempt++ {
		if attempt > 0 {
			metrics.RecordWorkerRetry()
			w.logger.Debug(ctx, "retrying fetch",
				logger.Int("id", id),
				logger.Int("attempt", attempt),
				logger.Error(lastErr),
			)
			select {
			case <-time.After(w.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-w.shutdown:
				return nil, fmt.Errorf("fetch #%d: %w", id, ErrStopped)
			}
		}

		doc, err := w.fetcher.FetchPokemon(ctx, id)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || !w.retryable(err) {
			break
		}
	}
	return nil, lastErr
}

// Report summarises a finished or running pool. Processed counts only jobs
// whose document reached the sink; Failed lists the rest.
type Report struct {
	Processed int
	Failed    []int
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	processed atomic.Int64
	mu        sync.Mutex
	failed    []int

	logger logger.Logger
}

// NewPool creates a worker pool. Non-positive counts use runtime.NumCPU.
func NewPool(workerCount int, q Queue, fetcher Fetcher, sink Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		workerOpts = append(workerOpts, withResultHook(p.record))
		p.workers[i] = NewInMemoryWorker(q, fetcher, sink, workerOpts...)
	}
	return p
}

func (p *Pool) record(id int, err error) {
	if err == nil {
		p.processed.Add(1)
		return
	}
	p.mu.Lock()
	p.failed = append(p.failed, id)
	p.mu.Unlock()
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	metrics.UpdateWorkerActiveCount(len(p.workers))
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has exited, which happens once the queue
// is closed and drained.
func (p *Pool) Wait(ctx context.Context) error {
	defer metrics.UpdateWorkerActiveCount(0)
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Shutdown closes the queue and stops every worker after its current job.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var errs []error
	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			errs = append(errs, err)
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return errors.Join(errs...)
}

// Report returns the processed count and the failed ids in ascending order.
func (p *Pool) Report() Report {
	p.mu.Lock()
	failed := append([]int(nil), p.failed...)
	p.mu.Unlock()
	sort.Ints(failed)
	return Report{Processed: int(p.processed.Load()), Failed: failed}
}
