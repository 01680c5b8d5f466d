// Package worker runs queued résumé analyses in the background.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/cvmatch/internal/adapters/mq/queue"
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/pkg/logger"
	"github.com/okian/cvmatch/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount  = 4
	poolShutdownTimeout = 30 * time.Second
)

// Analyzer runs the catalog-wide pipeline on one résumé.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, data []byte) (model.MatchReport, error)
}

// Store persists analysis records.
type Store interface {
	Get(ctx context.Context, id string) (model.AnalysisRecord, error)
	Save(ctx context.Context, rec model.AnalysisRecord) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes analysis jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	store    Store
	name     string
	now      func() time.Time

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, analyzer Analyzer, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		analyzer: analyzer,
		store:    store,
		name:     "worker",
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
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
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "error saving analysis", logger.String("analysis_id", job.AnalysisID), logger.Error(err))
			}
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

// process analyzes one job and stores the finished record. Analysis
// failures are recorded on the record; only a store failure is returned.
func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: Job arrives by value from the channel
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	report, err := w.analyzer.Analyze(ctx, job.Filename, job.Data)

	rec, gerr := w.store.Get(ctx, job.AnalysisID)
	if gerr != nil {
		rec = model.AnalysisRecord{
			ID:         job.AnalysisID,
			UserID:     job.UserID,
			CVFilename: job.Filename,
			CreatedAt:  job.SubmittedAt,
		}
	}
	completed := w.now()
	rec.CompletedAt = &completed

	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordAnalysisFailed()
		metrics.RecordErrorByComponent("worker", "analysis_failed")
		w.logger.Warn(ctx, "analysis failed",
			logger.String("analysis_id", job.AnalysisID),
			logger.String("user_id", job.UserID),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
		rec.Status = model.AnalysisFailed
		rec.Error = err.Error()
		rec.Report = nil
	} else {
		metrics.RecordAnalysisCompleted()
		rec.Status = model.AnalysisDone
		rec.Error = ""
		rec.Report = &report
	}

	if err := w.store.Save(ctx, rec); err != nil {
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("save analysis %s: %w", job.AnalysisID, err)
	}
	return nil
}

// Pool manages multiple workers reading from one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, analyzer Analyzer, store Store, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(q, analyzer, store,
			append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
