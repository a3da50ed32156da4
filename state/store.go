package state

import (
	"sync"

	"github.com/uyouii/percentile-chart/model"
)

// Store holds the current percentile and pushes every change to its subscribers.
// The last write wins; readers get whatever value is current at call time.
type Store struct {
	// held across a write and its notifications so subscribers see changes in write order
	notifyMu sync.Mutex

	mu          sync.RWMutex
	percentile  model.Percentile
	revision    uint64
	nextID      int
	subscribers map[int]func(model.Percentile)
}

func NewStore(initial model.Percentile) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	return &Store{
		percentile:  initial,
		subscribers: map[int]func(model.Percentile){},
	}, nil
}

func (s *Store) Get() model.Percentile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.percentile
}

// Revision counts the changes applied to the store.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) Set(p model.Percentile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.percentile = p
	s.revision++
	subscribers := make([]func(model.Percentile), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	// called outside mu so a subscriber may read the store, it must not write to it
	for _, fn := range subscribers {
		fn(p)
	}
	return nil
}

func (s *Store) Clear() {
	// absent always validates
	_ = s.Set(model.NoPercentile)
}

// Subscribe registers fn for every later change and returns a function removing it.
func (s *Store) Subscribe(fn func(model.Percentile)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}
