package match

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DedS3t/minopolis/platform/engine"
	"github.com/sirupsen/logrus"
)

var errNotIdle = errors.New("match is not idle")

// FinishFunc is called once when a match ends.
type FinishFunc func(ctx context.Context, matchID, winner string)

// Match owns one game and serializes every command against it. A snapshot is
// saved before the lock is released.
type Match struct {
	ID string

	mu           sync.Mutex
	game         *engine.Game
	store        Store
	log          *logrus.Entry
	lastActivity time.Time
	lastPlayed   time.Time
	onFinish     FinishFunc
	now          func() time.Time
}

func (m *Match) Join(ctx context.Context, playerID, name string) ([]engine.Event, error) {
	return m.run(ctx, "join", playerID, false, func(g *engine.Game) ([]engine.Event, error) {
		return g.AddPlayer(playerID, name)
	})
}

func (m *Match) Leave(ctx context.Context, playerID string) ([]engine.Event, error) {
	return m.run(ctx, "leave", playerID, false, func(g *engine.Game) ([]engine.Event, error) {
		return g.RemovePlayer(playerID)
	})
}

func (m *Match) Start(ctx context.Context) ([]engine.Event, error) {
	return m.run(ctx, "start", "", false, func(g *engine.Game) ([]engine.Event, error) {
		return g.Start()
	})
}

// Do applies a player command.
func (m *Match) Do(ctx context.Context, playerID string, action engine.Action) ([]engine.Event, error) {
	return m.run(ctx, string(action.Type), playerID, false, func(g *engine.Game) ([]engine.Event, error) {
		return g.Apply(playerID, action)
	})
}

func (m *Match) ForceEndTurn(ctx context.Context) ([]engine.Event, error) {
	return m.run(ctx, "force_end_turn", "", true, func(g *engine.Game) ([]engine.Event, error) {
		return g.ForceEndTurn()
	})
}

func (m *Match) ForcePass(ctx context.Context) ([]engine.Event, error) {
	return m.run(ctx, "force_pass", "", true, func(g *engine.Game) ([]engine.Event, error) {
		return g.ForcePass()
	})
}

func (m *Match) View() engine.GameView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.View()
}

func (m *Match) Snapshot() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Snapshot()
}

func (m *Match) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastActivity
}

// LastPlayed is the time of the last command a player issued. Forced
// timeouts do not count.
func (m *Match) LastPlayed() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPlayed
}

// EnforceIdle passes the due bidder, or ends the turn, when the active match
// has seen no command since cutoff. The check and the forced command share
// one critical section. It reports whether anything was forced.
func (m *Match) EnforceIdle(ctx context.Context, cutoff time.Time) (bool, error) {
	forced := false
	_, err := m.run(ctx, "enforce_idle", "", true, func(g *engine.Game) ([]engine.Event, error) {
		if g.Phase != engine.PhaseActive || m.lastActivity.After(cutoff) {
			return nil, errNotIdle
		}
		forced = true
		if acq := g.Acquisition; acq != nil && acq.State == engine.AcquisitionAuction {
			return g.ForcePass()
		}
		return g.ForceEndTurn()
	})
	if errors.Is(err, errNotIdle) {
		return false, nil
	}
	return forced, err
}

func (m *Match) run(ctx context.Context, action, playerID string, forced bool, fn func(*engine.Game) ([]engine.Event, error)) ([]engine.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.log.WithFields(logrus.Fields{"action": action, "player": playerID})
	before := m.game.Phase
	events, err := fn(m.game)
	if err != nil {
		log.WithError(err).Debug("command rejected")
		return nil, err
	}
	m.lastActivity = m.now()
	if !forced {
		m.lastPlayed = m.lastActivity
	}
	log.WithField("events", len(events)).Info("command applied")
	m.persist(ctx, events)

	if before != engine.PhaseFinished && m.game.Phase == engine.PhaseFinished {
		log.WithField("winner", m.game.Winner).Info("match finished")
		if m.onFinish != nil {
			m.onFinish(ctx, m.ID, m.game.Winner)
		}
	}
	return events, nil
}

// persist saves the snapshot and event history. The in-memory game stays
// authoritative, so storage failures are logged rather than returned.
func (m *Match) persist(ctx context.Context, events []engine.Event) {
	if m.store == nil {
		return
	}
	data, err := m.game.Snapshot()
	if err != nil {
		m.log.WithError(err).Error("encode snapshot")
		return
	}
	if err := m.store.Save(ctx, m.ID, data); err != nil {
		m.log.WithError(err).Error("save snapshot")
	}
	if el, ok := m.store.(EventLog); ok && len(events) > 0 {
		if err := el.Append(ctx, m.ID, events); err != nil {
			m.log.WithError(err).Error("append events")
		}
	}
}
