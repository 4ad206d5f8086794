package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is the serializable form of a Game.
type Snapshot struct {
	Version int       `json:"version"`
	TakenAt time.Time `json:"taken_at"`
	Game    *Game     `json:"game"`
}

// Snapshot encodes the full match state.
func (g *Game) Snapshot() ([]byte, error) {
	return json.Marshal(Snapshot{Version: SnapshotVersion, TakenAt: time.Now().UTC(), Game: g})
}

// Restore rebuilds a game from a snapshot. The board, decks data and dice come
// from cfg; rules and deck order come from the snapshot.
func Restore(data []byte, cfg Config) (*Game, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSnapshot, snap.Version)
	}
	g := snap.Game
	if g == nil {
		return nil, fmt.Errorf("%w: missing game", ErrUnsupportedSnapshot)
	}
	g.wire(cfg)
	for _, p := range g.Players {
		if p.Owned == nil {
			p.Owned = make(map[string]bool)
		}
		if p.Mortgaged == nil {
			p.Mortgaged = make(map[string]bool)
		}
		if p.Houses == nil {
			p.Houses = make(map[string]int)
		}
	}
	if g.Chance == nil || g.Chest == nil {
		return nil, fmt.Errorf("%w: missing decks", ErrUnsupportedSnapshot)
	}
	if err := g.checkInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSnapshot, err)
	}
	return g, nil
}

// checkInvariants verifies the ledger is self consistent.
func (g *Game) checkInvariants() error {
	if err := g.Rules.Validate(); err != nil {
		return err
	}
	owners := make(map[string]string)
	seen := make(map[string]bool)
	for _, p := range g.Players {
		if seen[p.ID] {
			return fmt.Errorf("duplicate player %s", p.ID)
		}
		seen[p.ID] = true
		if p.Cash < 0 {
			return fmt.Errorf("player %s has negative cash", p.ID)
		}
		if p.Position < 0 || p.Position >= g.Board.Len() {
			return fmt.Errorf("player %s is off the board", p.ID)
		}
		for id := range p.Owned {
			space, err := g.Board.GetById(id)
			if err != nil || !space.Ownable() {
				return fmt.Errorf("player %s owns unknown space %s", p.ID, id)
			}
			if other, ok := owners[id]; ok {
				return fmt.Errorf("%s is owned by both %s and %s", id, other, p.ID)
			}
			owners[id] = p.ID
		}
		for id := range p.Mortgaged {
			if !p.Owned[id] {
				return fmt.Errorf("player %s mortgaged %s without owning it", p.ID, id)
			}
		}
		for id, n := range p.Houses {
			if !p.Owned[id] || n < 0 || n > 5 || p.Mortgaged[id] {
				return fmt.Errorf("player %s has invalid buildings on %s", p.ID, id)
			}
		}
	}
	if g.Phase == PhaseActive {
		if cur := g.GetPlayer(g.Turn.PlayerID); cur == nil || cur.Bankrupt {
			return fmt.Errorf("turn belongs to unknown player %q", g.Turn.PlayerID)
		}
	}
	return nil
}
