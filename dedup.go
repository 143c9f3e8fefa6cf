package zalert

import "sync"

// SeenSet tracks listing identifiers already emitted during a run. It is
// threaded through every extraction path so that the first occurrence of a
// ZPID wins and later ones are dropped silently, within one document and
// across a batch.
//
// It is safe for concurrent use by multiple goroutines.
type SeenSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewSeenSet returns an empty SeenSet.
func NewSeenSet() *SeenSet {
	return &SeenSet{ids: make(map[string]struct{})}
}

// Add records an identifier. It returns true if the identifier was not seen
// before, false if it is a duplicate.
func (s *SeenSet) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Seen reports whether an identifier has been recorded.
func (s *SeenSet) Seen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.ids[id]
	return ok
}

// Len returns the number of recorded identifiers.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
