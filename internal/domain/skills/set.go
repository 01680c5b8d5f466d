package skills

// Set is an insertion-ordered, case-insensitive set of skill names.
// The first spelling added for a key is the one kept for display.
// The zero value is ready to use. A Set is not safe for concurrent mutation.
type Set struct {
	values []string
	index  map[string]int
}

// NewSet returns a set holding values in order, duplicates collapsed.
func NewSet(values ...string) *Set {
	s := &Set{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v unless an equal skill is present or v is blank.
// It reports whether v was inserted.
func (s *Set) Add(v string) bool {
	key := Normalize(v)
	if key == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.values)
	s.values = append(s.values, v)
	return true
}

// Contains reports whether an equal skill is in the set.
func (s *Set) Contains(v string) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[Normalize(v)]
	return ok
}

// Len returns the number of skills.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Values returns a copy of the skills in insertion order.
func (s *Set) Values() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Keys returns the normalized keys in insertion order.
func (s *Set) Keys() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.values))
	for i, v := range s.values {
		out[i] = Normalize(v)
	}
	return out
}
