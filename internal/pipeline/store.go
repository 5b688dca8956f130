package pipeline

import "sync"

// Store holds the in-memory candidate set for the active view. It preserves
// insertion order and hands out clones so readers never see engine-internal
// state. Lifecycle is scoped to the view: Replace resets it from a fresh
// remote fetch.
type Store struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*Candidate
}

func NewStore() *Store {
	return &Store{byID: make(map[string]*Candidate)}
}

// Replace resets the store to exactly the given candidates, in order.
func (s *Store) Replace(cs []*Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.byID = make(map[string]*Candidate, len(cs))
	for _, c := range cs {
		if _, dup := s.byID[c.ID]; dup {
			continue
		}
		s.order = append(s.order, c.ID)
		s.byID[c.ID] = c.Clone()
	}
}

// Put inserts or updates one candidate, preserving its original position.
func (s *Store) Put(c *Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	s.byID[c.ID] = c.Clone()
}

// Get returns a clone of the candidate, if present.
func (s *Store) Get(id string) (*Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// All returns clones of every candidate in insertion order.
func (s *Store) All() []*Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Candidate, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// Len returns the number of candidates held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Reset clears the store.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.byID = make(map[string]*Candidate)
}
