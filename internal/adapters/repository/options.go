package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxPerUser bounds how many records are kept per user; the oldest
// are dropped first. Zero or negative keeps everything.
func WithMaxPerUser(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxPerUser = n
		}
	}
}
