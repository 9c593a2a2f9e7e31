package application

import (
	"fmt"
	"sync"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
)

// SettingsStore holds the process settings and publishes every accepted
// change to its subscribers.
type SettingsStore struct {
	mu          sync.RWMutex
	current     domain.Settings
	nextID      int
	subscribers map[int]func(domain.Settings)
}

var _ ports.SettingsSource = (*SettingsStore)(nil)

func NewSettingsStore(initial domain.Settings) (*SettingsStore, error) {
	initial = initial.WithDefaults()
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("validate initial settings: %w", err)
	}

	return &SettingsStore{
		current:     initial,
		subscribers: map[int]func(domain.Settings){},
	}, nil
}

func (s *SettingsStore) Current() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Update replaces the settings when next is valid. Subscribers are notified
// outside the lock and in no particular order.
func (s *SettingsStore) Update(next domain.Settings) error {
	next = next.WithDefaults()
	if err := next.Validate(); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	s.mu.Lock()
	s.current = next
	subscribers := make([]func(domain.Settings), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}

	return nil
}

func (s *SettingsStore) Subscribe(fn func(domain.Settings)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
		})
	}
}
