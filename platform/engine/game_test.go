package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDice replays fixed rolls in order.
type scriptedDice struct {
	rolls [][2]int
}

func (s *scriptedDice) Roll() (int, int) {
	r := s.rolls[0]
	s.rolls = s.rolls[1:]
	return r[0], r[1]
}

func dice(rolls ...[2]int) *scriptedDice {
	return &scriptedDice{rolls: rolls}
}

func newTestGame(t *testing.T, d Roller, ids ...string) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	if d != nil {
		cfg.Dice = d
	}
	g := NewGame("test", cfg)
	for _, id := range ids {
		_, err := g.AddPlayer(id, "Player "+id)
		require.NoError(t, err)
	}
	_, err := g.Start()
	require.NoError(t, err)
	return g
}

func requireNonNegativeCash(t *testing.T, g *Game) {
	t.Helper()
	for _, p := range g.Players {
		require.GreaterOrEqual(t, p.Cash, 0, "player %s", p.ID)
	}
}

func hasEvent(events []Event, typ EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func TestLobbyLifecycle(t *testing.T) {
	g := NewGame("lobby", DefaultConfig())

	_, err := g.Start()
	assert.True(t, errors.Is(err, ErrNotEnoughPlayers))

	_, err = g.AddPlayer("A", "Alice")
	require.NoError(t, err)
	_, err = g.AddPlayer("A", "Alice again")
	assert.Equal(t, ErrDuplicatePlayer, err)

	_, err = g.RollDice("A")
	assert.Equal(t, ErrNotStarted, err)

	_, err = g.AddPlayer("B", "Bob")
	require.NoError(t, err)
	_, err = g.RemovePlayer("B")
	require.NoError(t, err)
	assert.Len(t, g.Players, 1)

	_, err = g.AddPlayer("B", "Bob")
	require.NoError(t, err)
	events, err := g.Start()
	require.NoError(t, err)
	assert.True(t, hasEvent(events, EventGameStart))
	assert.Equal(t, PhaseActive, g.Phase)
	assert.Equal(t, "A", g.Turn.PlayerID)
	for _, p := range g.Players {
		assert.Equal(t, 1500, p.Cash)
	}

	_, err = g.AddPlayer("C", "Carol")
	assert.Equal(t, ErrAlreadyStarted, err)
}

func TestGameFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules.MaxPlayers = 2
	g := NewGame("full", cfg)
	_, err := g.AddPlayer("A", "a")
	require.NoError(t, err)
	_, err = g.AddPlayer("B", "b")
	require.NoError(t, err)
	_, err = g.AddPlayer("C", "c")
	assert.Equal(t, ErrGameFull, err)
}

func TestApplyDispatch(t *testing.T) {
	g := newTestGame(t, dice([2]int{4, 6}), "A", "B")

	_, err := g.Apply("A", Action{Type: "teleport"})
	assert.Equal(t, ErrInvalidAction, err)

	_, err = g.Apply("A", Action{Type: ActionProposeTrade})
	assert.True(t, errors.Is(err, ErrInvalidTrade))

	events, err := g.Apply("A", Action{Type: ActionRoll})
	require.NoError(t, err)
	assert.True(t, hasEvent(events, EventDiceRolled))
	assert.Equal(t, 10, g.GetPlayer("A").Position)

	_, err = g.Apply("A", Action{Type: ActionEndTurn})
	require.NoError(t, err)
	assert.Equal(t, "B", g.Turn.PlayerID)
}

func TestErrorTaxonomy(t *testing.T) {
	g := newTestGame(t, nil, "A", "B")

	_, err := g.RollDice("B")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "not_your_turn", verr.Code)

	_, err = g.Bid("A", 10)
	var serr *StateError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "no_auction", serr.Code)

	_, err = g.EndTurn("A")
	assert.Equal(t, ErrMustRoll, err)
}

func TestLeaveActiveGameForfeitsToBank(t *testing.T) {
	g := newTestGame(t, nil, "A", "B", "C")
	a := g.GetPlayer("A")
	a.addProperty("boardwalk", false)

	events, err := g.RemovePlayer("A")
	require.NoError(t, err)
	assert.True(t, hasEvent(events, EventBankruptcy))
	assert.True(t, a.Bankrupt)
	assert.Nil(t, g.OwnerOf("boardwalk"))
	assert.Equal(t, "B", g.Turn.PlayerID)
	assert.Equal(t, PhaseActive, g.Phase)

	_, err = g.RemovePlayer("B")
	require.NoError(t, err)
	assert.Equal(t, PhaseFinished, g.Phase)
	assert.Equal(t, "C", g.Winner)

	_, err = g.RemovePlayer("C")
	assert.Equal(t, ErrGameOver, err)
}

func TestViewReportsHoldings(t *testing.T) {
	g := newTestGame(t, nil, "A", "B")
	a := g.GetPlayer("A")
	a.addProperty("mediterranean-avenue", false)
	a.addProperty("baltic-avenue", false)

	v := g.View()
	require.Len(t, v.Players, 2)
	assert.Equal(t, []string{"mediterranean-avenue", "baltic-avenue"}, v.Players[0].Properties)
	assert.Equal(t, 1500+30+30, v.Players[0].NetWorth)
	assert.Equal(t, 1560, g.NetWorth("A"))

	var found bool
	for _, pv := range v.Properties {
		if pv.Id == "baltic-avenue" {
			found = true
			assert.Equal(t, "A", pv.Owner)
			assert.Equal(t, 8, pv.CurrentRent)
			assert.True(t, pv.CanBuild)
			assert.True(t, pv.CanMortgage)
			assert.False(t, pv.CanSell)
			assert.False(t, pv.CanUnmortgage)
		}
	}
	assert.True(t, found)
	assert.Len(t, v.Properties, 28)
}
