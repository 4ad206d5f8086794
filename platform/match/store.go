package match

import (
	"context"
	"errors"
	"sync"

	"github.com/DedS3t/minopolis/platform/engine"
)

var (
	ErrNotFound = errors.New("match not found")
	ErrExists   = errors.New("match already exists")
)

// Store persists match snapshots. Load returns ErrNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, id string, snapshot []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// EventLog is implemented by stores that also keep the event history.
type EventLog interface {
	Append(ctx context.Context, id string, events []engine.Event) error
	Events(ctx context.Context, id string, n int) ([]engine.Event, error)
}

// MemoryStore keeps snapshots in process. It is used by tests and when no
// redis is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	events    map[string][]engine.Event
}

var _ EventLog = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string][]byte),
		events:    make(map[string][]engine.Event),
	}
}

func (s *MemoryStore) Save(_ context.Context, id string, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[id] = append([]byte(nil), snapshot...)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
	delete(s.events, id)
	return nil
}

func (s *MemoryStore) Append(_ context.Context, id string, events []engine.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[id] = append(s.events[id], events...)
	return nil
}

// Events returns up to the last n events of a match, oldest first.
func (s *MemoryStore) Events(_ context.Context, id string, n int) ([]engine.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.events[id]
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return append([]engine.Event(nil), all...), nil
}
