package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DedS3t/minopolis/platform/engine"
	"github.com/sirupsen/logrus"
)

// Manager keeps the live matches of this process. Matches missing from
// memory are resumed from the store.
type Manager struct {
	mu      sync.RWMutex
	matches map[string]*Match

	cfg      engine.Config
	store    Store
	log      logrus.FieldLogger
	onFinish FinishFunc
	now      func() time.Time
}

func NewManager(cfg engine.Config, store Store, logger logrus.FieldLogger) *Manager {
	return &Manager{
		matches: make(map[string]*Match),
		cfg:     cfg,
		store:   store,
		log:     logger,
		now:     time.Now,
	}
}

// OnFinish registers a callback for matches that end.
func (m *Manager) OnFinish(fn FinishFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFinish = fn
}

// Create opens a new match in the lobby.
func (m *Manager) Create(ctx context.Context, id string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[id]; ok {
		return nil, ErrExists
	}
	match := m.wrap(engine.NewGame(id, m.cfg))
	m.matches[id] = match
	match.persist(ctx, nil)
	match.log.Info("match created")
	return match, nil
}

// Get returns a live match, resuming it from its snapshot when needed.
func (m *Manager) Get(ctx context.Context, id string) (*Match, error) {
	m.mu.RLock()
	match, ok := m.matches[id]
	m.mu.RUnlock()
	if ok {
		return match, nil
	}
	if m.store == nil {
		return nil, ErrNotFound
	}

	data, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", id, err)
	}
	game, err := engine.Restore(data, m.cfg)
	if err != nil {
		return nil, fmt.Errorf("restore match %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.matches[id]; ok {
		return existing, nil
	}
	match = m.wrap(game)
	m.matches[id] = match
	match.log.Info("match resumed")
	return match, nil
}

// Remove drops a match from memory and from the store.
func (m *Manager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.matches, id)
	m.mu.Unlock()
	if m.store == nil {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	return nil
}

// Exists reports whether the match is live here or resumable from the store.
func (m *Manager) Exists(ctx context.Context, id string) (bool, error) {
	_, err := m.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Abandoned lists the active matches no player has touched since before.
func (m *Manager) Abandoned(before time.Time) []string {
	var ids []string
	for _, match := range m.Matches() {
		if match.View().Phase == engine.PhaseActive && !match.LastPlayed().After(before) {
			ids = append(ids, match.ID)
		}
	}
	return ids
}

// Matches lists the live matches ordered by id.
func (m *Manager) Matches() []*Match {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Match, 0, len(m.matches))
	for _, match := range m.matches {
		out = append(out, match)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Manager) wrap(g *engine.Game) *Match {
	return &Match{
		ID:           g.ID,
		game:         g,
		store:        m.store,
		log:          m.log.WithField("match", g.ID),
		lastActivity: m.now(),
		lastPlayed:   m.now(),
		onFinish:     m.finishHook,
		now:          m.now,
	}
}

func (m *Manager) finishHook(ctx context.Context, id, winner string) {
	m.mu.RLock()
	fn := m.onFinish
	m.mu.RUnlock()
	if fn != nil {
		fn(ctx, id, winner)
	}
}
