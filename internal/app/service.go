// Package service wires the matching pipeline to the adapters and
// implements the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/cvmatch/internal/adapters/cache"
	"github.com/okian/cvmatch/internal/adapters/mq/queue"
	"github.com/okian/cvmatch/internal/adapters/mq/worker"
	"github.com/okian/cvmatch/internal/adapters/repository"
	"github.com/okian/cvmatch/internal/domain/catalog"
	"github.com/okian/cvmatch/internal/domain/matching"
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/internal/domain/report"
	"github.com/okian/cvmatch/pkg/logger"
	"github.com/okian/cvmatch/pkg/metrics"
)

const (
	defaultWorkerCount        = 4
	defaultQueueSize          = 256
	defaultCacheSize          = 1024
	defaultMaxAnalysesPerUser = 20
	stopTimeout               = 30 * time.Second
)

// CatalogInfo describes the loaded job catalog.
type CatalogInfo struct {
	Postings    int    `json:"postings"`
	Vocabulary  int    `json:"vocabulary_size"`
	Fingerprint string `json:"fingerprint"`
}

// Service implements CV analysis against a job catalog.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog *catalog.Catalog
	engine  *matching.Engine
	reports cache.Cache[model.MatchReport]
	targets cache.Cache[model.TargetReport]
	queue   queue.Queue
	pool    *worker.Pool
	store   repository.Store

	// Configuration
	topN           int
	maxSuggestions int
	workerCount    int
	queueSize      int
	cacheSize      int
	maxPerUser     int
	now            func() time.Time

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
// The synchronous pipeline (Match, Target) works without Start; the
// asynchronous analysis path needs the worker pool Start launches.
func New(opts ...Option) *Service {
	s := &Service{
		engine:         matching.NewEngine(),
		topN:           report.DefaultTopN,
		maxSuggestions: report.DefaultMaxSuggestions,
		workerCount:    defaultWorkerCount,
		queueSize:      defaultQueueSize,
		cacheSize:      defaultCacheSize,
		maxPerUser:     defaultMaxAnalysesPerUser,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithMaxPerUser(s.maxPerUser))
	}
	s.reports = cache.New[model.MatchReport](cache.WithMaxSize(s.cacheSize))
	s.targets = cache.New[model.TargetReport](cache.WithMaxSize(s.cacheSize))

	if s.catalog != nil {
		metrics.UpdateCatalogSize(s.catalog.Len(), len(s.catalog.Vocabulary()))
	}
	return s
}

// Start launches the analysis queue and worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting analysis service...")

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s, s.store)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("cacheSize", s.cacheSize),
	)
	return nil
}

// Stop drains queued analyses and shuts the worker pool down. The lock is
// released before draining because workers read the catalog through it.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	pool, cancel := s.pool, s.cancel
	s.started = false
	s.mu.Unlock()

	ctx, timeout := context.WithTimeout(context.Background(), stopTimeout)
	defer timeout()

	s.logger.Info(ctx, "stopping analysis service...")
	if err := pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	cancel()
	s.logger.Info(ctx, "analysis service stopped")
}

// SetCatalog replaces the catalog. Cached reports are keyed by catalog
// fingerprint, so results computed for the old catalog are never served.
func (s *Service) SetCatalog(c *catalog.Catalog) {
	if c == nil {
		return
	}
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
	metrics.UpdateCatalogSize(c.Len(), len(c.Vocabulary()))
}

func (s *Service) currentCatalog() (*catalog.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return nil, ErrNoCatalog
	}
	return s.catalog, nil
}

// CatalogInfo returns a description of the loaded catalog.
func (s *Service) CatalogInfo(_ context.Context) (CatalogInfo, error) {
	c, err := s.currentCatalog()
	if err != nil {
		return CatalogInfo{}, err
	}
	return CatalogInfo{
		Postings:    c.Len(),
		Vocabulary:  len(c.Vocabulary()),
		Fingerprint: c.Fingerprint(),
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"topN":            s.topN,
		"reportCacheSize": s.reports.Size() + s.targets.Size(),
		"analyses":        s.store.Count(ctx),
	}
	if s.catalog != nil {
		stats["catalogPostings"] = s.catalog.Len()
		stats["catalogFingerprint"] = s.catalog.Fingerprint()
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
