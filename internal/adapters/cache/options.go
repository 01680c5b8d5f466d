package cache

// Option applies a configuration option to an InMemory cache.
type Option func(*settings)

type settings struct {
	maxSize int
}

// WithMaxSize sets the maximum number of entries to keep in memory.
// If maxSize > 0: bounded mode, oldest entry evicted first.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(s *settings) {
		s.maxSize = maxSize
	}
}
