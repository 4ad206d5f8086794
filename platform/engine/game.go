package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/DedS3t/minopolis/app/models"
	"github.com/DedS3t/minopolis/platform/board"
)

// Bank is the counterparty id used for payments to or from the bank.
const Bank = ""

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
)

// Turn is the active player's per-turn state.
type Turn struct {
	PlayerID string `json:"player_id"`
	Dice     [2]int `json:"dice"`
	Rolled   bool   `json:"rolled"`
	Doubles  int    `json:"doubles"`
}

// Config wires the static data and randomness a game needs.
type Config struct {
	Board *board.Catalog
	Decks board.Decks
	Rules Rules
	Dice  Roller
	Seed  int64 // shuffle seed; zero uses the clock
}

func DefaultConfig() Config {
	return Config{
		Board: board.Default(),
		Decks: board.DefaultDecks(),
		Rules: DefaultRules(),
		Dice:  NewRandomRoller(0),
	}
}

// Game is the authoritative state of one match. It is not safe for
// concurrent use; callers serialize access.
type Game struct {
	ID          string         `json:"id"`
	Rules       Rules          `json:"rules"`
	Phase       Phase          `json:"phase"`
	Players     []*Player      `json:"players"` // table order
	Turn        Turn           `json:"turn"`
	Acquisition *Acquisition   `json:"acquisition,omitempty"`
	Trades      []*TradeOffer  `json:"trades,omitempty"`
	Chance      *Deck          `json:"chance"`
	Chest       *Deck          `json:"chest"`
	Winner      string         `json:"winner,omitempty"`
	TradeSeq    int            `json:"trade_seq"`
	Board       *board.Catalog `json:"-"`

	dice Roller
	rng  *rand.Rand
}

func NewGame(id string, cfg Config) *Game {
	g := &Game{
		ID:    id,
		Rules: cfg.Rules,
		Phase: PhaseLobby,
		Board: cfg.Board,
	}
	g.wire(cfg)
	g.Chance = NewDeck(models.KindChance, cfg.Decks.Chance, g.rng)
	g.Chest = NewDeck(models.KindCommunityChest, cfg.Decks.Chest, g.rng)
	return g
}

func (g *Game) wire(cfg Config) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))
	g.dice = cfg.Dice
	if g.dice == nil {
		g.dice = NewRandomRoller(seed)
	}
	g.Board = cfg.Board
}

// AddPlayer seats a player while the game is in the lobby.
func (g *Game) AddPlayer(id, name string) ([]Event, error) {
	if g.Phase != PhaseLobby {
		return nil, ErrAlreadyStarted
	}
	if g.GetPlayer(id) != nil {
		return nil, ErrDuplicatePlayer
	}
	if len(g.Players) >= g.Rules.MaxPlayers {
		return nil, ErrGameFull
	}
	g.Players = append(g.Players, NewPlayer(id, name))
	return []Event{{Type: EventPlayerJoined, Player: id, Data: map[string]interface{}{"name": name}}}, nil
}

// RemovePlayer unseats a player before the game starts. Once the game is
// running, leaving forfeits everything to the bank.
func (g *Game) RemovePlayer(id string) ([]Event, error) {
	switch g.Phase {
	case PhaseLobby:
		for i, p := range g.Players {
			if p.ID == id {
				g.Players = append(g.Players[:i], g.Players[i+1:]...)
				return []Event{{Type: EventPlayerLeft, Player: id}}, nil
			}
		}
		return nil, ErrPlayerNotFound
	case PhaseActive:
		p := g.GetPlayer(id)
		if p == nil || p.Bankrupt {
			return nil, ErrPlayerNotFound
		}
		events := []Event{{Type: EventPlayerLeft, Player: id}}
		return append(events, g.bankrupt(p, Bank, 0)...), nil
	default:
		return nil, ErrGameOver
	}
}

// Start hands out starting cash and gives the first seat the turn.
func (g *Game) Start() ([]Event, error) {
	if g.Phase != PhaseLobby {
		return nil, ErrAlreadyStarted
	}
	if len(g.Players) < g.Rules.MinPlayers {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughPlayers, g.Rules.MinPlayers, len(g.Players))
	}
	for _, p := range g.Players {
		p.Cash = g.Rules.StartingCash
		p.Position = 0
	}
	g.Phase = PhaseActive
	g.Turn = Turn{PlayerID: g.Players[0].ID}

	ids := make([]string, len(g.Players))
	for i, p := range g.Players {
		ids[i] = p.ID
	}
	return []Event{
		{Type: EventGameStart, Data: map[string]interface{}{"order": ids, "cash": g.Rules.StartingCash}},
		{Type: EventTurnStart, Player: g.Turn.PlayerID},
	}, nil
}

// Apply is the single entry point for player commands.
func (g *Game) Apply(playerID string, action Action) ([]Event, error) {
	switch action.Type {
	case ActionRoll:
		return g.RollDice(playerID)
	case ActionBuy:
		return g.Buy(playerID)
	case ActionDecline:
		return g.Decline(playerID)
	case ActionBid:
		return g.Bid(playerID, action.Amount)
	case ActionPass:
		return g.Pass(playerID)
	case ActionBuild:
		return g.Build(playerID, action.Space)
	case ActionSell:
		return g.Sell(playerID, action.Space)
	case ActionMortgage:
		return g.Mortgage(playerID, action.Space)
	case ActionUnmortgage:
		return g.Unmortgage(playerID, action.Space)
	case ActionPayJailFine:
		return g.PayJailFine(playerID)
	case ActionUseJailCard:
		return g.UseJailCard(playerID)
	case ActionProposeTrade:
		if action.Trade == nil {
			return nil, fmt.Errorf("%w: trade terms missing", ErrInvalidTrade)
		}
		return g.ProposeTrade(playerID, *action.Trade)
	case ActionAcceptTrade:
		return g.AcceptTrade(playerID, action.TradeID)
	case ActionRejectTrade:
		return g.RejectTrade(playerID, action.TradeID)
	case ActionCancelTrade:
		return g.CancelTrade(playerID, action.TradeID)
	case ActionEndTurn:
		return g.EndTurn(playerID)
	default:
		return nil, ErrInvalidAction
	}
}

// GetPlayer finds a player by ID.
func (g *Game) GetPlayer(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ActivePlayers returns the players still in the rotation, in table order.
func (g *Game) ActivePlayers() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if !p.Bankrupt {
			out = append(out, p)
		}
	}
	return out
}

// OwnerOf returns the player holding a space, or nil.
func (g *Game) OwnerOf(spaceID string) *Player {
	for _, p := range g.Players {
		if p.Owns(spaceID) {
			return p
		}
	}
	return nil
}

func (g *Game) requireActive() error {
	switch g.Phase {
	case PhaseLobby:
		return ErrNotStarted
	case PhaseFinished:
		return ErrGameOver
	}
	return nil
}

func (g *Game) requireTurn(playerID string) (*Player, error) {
	if err := g.requireActive(); err != nil {
		return nil, err
	}
	p := g.GetPlayer(playerID)
	if p == nil || p.Bankrupt {
		return nil, ErrPlayerNotFound
	}
	if g.Turn.PlayerID != playerID {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// requireTurnWindow is requireTurn plus no purchase or auction outstanding.
func (g *Game) requireTurnWindow(playerID string) (*Player, error) {
	p, err := g.requireTurn(playerID)
	if err != nil {
		return nil, err
	}
	if g.Acquisition != nil {
		return nil, ErrAcquisitionPending
	}
	return p, nil
}

func (g *Game) space(id string) (models.Space, error) {
	s, err := g.Board.GetById(id)
	if err != nil {
		return models.Space{}, fmt.Errorf("%w: %s", ErrUnknownSpace, id)
	}
	return s, nil
}

func (g *Game) deck(kind models.SpaceKind) *Deck {
	if kind == models.KindChance {
		return g.Chance
	}
	return g.Chest
}

// ownedInBoardOrder lists a player's spaces in board order.
func (g *Game) ownedInBoardOrder(p *Player) []models.Space {
	var out []models.Space
	for _, s := range g.Board.Spaces() {
		if p.Owns(s.Id) {
			out = append(out, s)
		}
	}
	return out
}
