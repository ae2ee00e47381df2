package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/waste-estimator/internal/common"
	"github.com/joseph-ayodele/waste-estimator/internal/core"
	"github.com/joseph-ayodele/waste-estimator/internal/core/pdftext"
)

// ErrQueueClosed is returned for work submitted after Shutdown.
var ErrQueueClosed = errors.New("processor queue is shutting down")

// job is one unit of document work. fn runs on a worker goroutine; done is
// buffered so a worker never blocks on a caller that gave up.
type job struct {
	ctx         context.Context
	fn          func(ctx context.Context) error
	done        chan error
	requestID   string
	submittedAt time.Time
}

// ProcessorQueue bounds how many documents are processed at once. Extraction
// may spawn a pdftotext process per document, so callers wait for a worker
// instead of each starting their own.
type ProcessorQueue struct {
	proc    *core.Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.RWMutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc *core.Processor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 2 * time.Minute,
		ch:      make(chan job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for j := range q.ch {
					if err := j.ctx.Err(); err != nil {
						// caller already gone
						j.done <- err
						continue
					}
					ctx, cancel := context.WithTimeout(j.ctx, q.timeout)
					err := j.fn(ctx)
					cancel()

					if err != nil {
						q.logger.Warn("queue.job.failed", "worker_id", workerID, "request_id", j.requestID, "error", err)
					} else {
						q.logger.Debug("queue.job.done",
							"worker_id", workerID,
							"request_id", j.requestID,
							"waited_ms", time.Since(j.submittedAt).Milliseconds(),
						)
					}
					j.done <- err
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// ProcessDocument runs the full estimate for data on a worker.
func (q *ProcessorQueue) ProcessDocument(ctx context.Context, data []byte) (core.Result, error) {
	var res core.Result
	err := q.submit(ctx, func(ctx context.Context) error {
		var err error
		res, err = q.proc.ProcessDocument(ctx, data)
		return err
	})
	if err != nil {
		return core.Result{}, err
	}
	return res, nil
}

// ExtractPages runs page text extraction only, on a worker.
func (q *ProcessorQueue) ExtractPages(ctx context.Context, data []byte) (pdftext.Pages, error) {
	var pages pdftext.Pages
	err := q.submit(ctx, func(ctx context.Context) error {
		var err error
		pages, err = q.proc.ExtractPages(ctx, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (q *ProcessorQueue) submit(ctx context.Context, fn func(context.Context) error) error {
	j := job{
		ctx:         ctx,
		fn:          fn,
		done:        make(chan error, 1),
		requestID:   common.RequestIDFromContext(ctx),
		submittedAt: time.Now(),
	}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	select {
	case q.ch <- j:
	default:
		q.logger.Warn("queue full, applying backpressure", "request_id", j.requestID)
		select {
		case q.ch <- j:
		case <-ctx.Done():
			q.mu.RUnlock()
			return ctx.Err()
		}
	}
	q.mu.RUnlock()

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting work and waits for queued jobs to drain.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
