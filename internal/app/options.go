package service

import (
	"time"

	"github.com/okian/cvmatch/internal/adapters/repository"
	"github.com/okian/cvmatch/internal/domain/catalog"
	"github.com/okian/cvmatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the job catalog matched against.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithTopN sets how many postings a catalog-wide report keeps.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithMaxSuggestions sets how many missing skills a target report suggests.
func WithMaxSuggestions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the analysis queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithReportCacheSize sets the number of reports kept per cache.
// Zero or negative leaves the cache unbounded.
func WithReportCacheSize(size int) Option {
	return func(s *Service) {
		s.cacheSize = size
	}
}

// WithMaxAnalysesPerUser bounds the history the default in-memory store
// keeps per user. It has no effect together with WithStore.
func WithMaxAnalysesPerUser(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPerUser = n
		}
	}
}

// WithStore sets the analysis store. An in-memory store is used otherwise.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the function used to stamp analysis records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
