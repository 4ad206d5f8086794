package engine

import (
	"fmt"
	"strconv"
)

type TradeStatus string

const (
	TradePending   TradeStatus = "pending"
	TradeAccepted  TradeStatus = "accepted"
	TradeRejected  TradeStatus = "rejected"
	TradeCancelled TradeStatus = "cancelled"
)

// TradeTerms is what a proposer submits: what they give and what they ask for.
type TradeTerms struct {
	Counterparty        string   `json:"counterparty"`
	OfferedProperties   []string `json:"offered_properties,omitempty"`
	OfferedCash         int      `json:"offered_cash,omitempty"`
	RequestedProperties []string `json:"requested_properties,omitempty"`
	RequestedCash       int      `json:"requested_cash,omitempty"`
}

// TradeOffer is a pending bilateral offer.
type TradeOffer struct {
	ID                     string      `json:"id"`
	Proposer               string      `json:"proposer"`
	Counterparty           string      `json:"counterparty"`
	ProposerProperties     []string    `json:"proposer_properties,omitempty"`
	ProposerCash           int         `json:"proposer_cash,omitempty"`
	CounterpartyProperties []string    `json:"counterparty_properties,omitempty"`
	CounterpartyCash       int         `json:"counterparty_cash,omitempty"`
	Status                 TradeStatus `json:"status"`
}

// ProposeTrade records an offer from the active player. Nothing changes
// hands until the counterparty accepts.
func (g *Game) ProposeTrade(playerID string, terms TradeTerms) ([]Event, error) {
	if _, err := g.requireTurnWindow(playerID); err != nil {
		return nil, err
	}
	offer := &TradeOffer{
		Proposer:               playerID,
		Counterparty:           terms.Counterparty,
		ProposerProperties:     terms.OfferedProperties,
		ProposerCash:           terms.OfferedCash,
		CounterpartyProperties: terms.RequestedProperties,
		CounterpartyCash:       terms.RequestedCash,
		Status:                 TradePending,
	}
	if err := g.ValidateTrade(offer); err != nil {
		return nil, err
	}
	g.TradeSeq++
	offer.ID = "trade-" + strconv.Itoa(g.TradeSeq)
	g.Trades = append(g.Trades, offer)
	return []Event{{Type: EventTradeProposed, Player: playerID, Data: map[string]interface{}{
		"trade": offer.ID, "counterparty": offer.Counterparty,
	}}}, nil
}

// ValidateTrade checks an offer against the current ledger. Each side must own
// what it gives, unmortgaged and with no buildings in its color group, and
// hold the cash it gives.
func (g *Game) ValidateTrade(o *TradeOffer) error {
	proposer := g.GetPlayer(o.Proposer)
	counterparty := g.GetPlayer(o.Counterparty)
	switch {
	case proposer == nil || proposer.Bankrupt:
		return fmt.Errorf("%w: unknown proposer", ErrInvalidTrade)
	case counterparty == nil || counterparty.Bankrupt:
		return fmt.Errorf("%w: unknown counterparty", ErrInvalidTrade)
	case proposer == counterparty:
		return fmt.Errorf("%w: cannot trade with yourself", ErrInvalidTrade)
	case o.ProposerCash < 0 || o.CounterpartyCash < 0:
		return fmt.Errorf("%w: cash amounts must not be negative", ErrInvalidTrade)
	case len(o.ProposerProperties)+len(o.CounterpartyProperties) == 0 && o.ProposerCash+o.CounterpartyCash == 0:
		return fmt.Errorf("%w: empty trade", ErrInvalidTrade)
	}
	if err := g.validateSide(proposer, o.ProposerProperties, o.ProposerCash); err != nil {
		return err
	}
	return g.validateSide(counterparty, o.CounterpartyProperties, o.CounterpartyCash)
}

func (g *Game) validateSide(p *Player, properties []string, cash int) error {
	seen := make(map[string]bool, len(properties))
	for _, id := range properties {
		space, err := g.space(id)
		if err != nil {
			return err
		}
		if seen[id] {
			return fmt.Errorf("%w: %s listed twice", ErrInvalidTrade, id)
		}
		seen[id] = true
		if !p.Owns(id) {
			return fmt.Errorf("%w: %s does not own %s", ErrInvalidTrade, p.ID, id)
		}
		if p.IsMortgaged(id) {
			return fmt.Errorf("%w: %s is mortgaged", ErrInvalidTrade, id)
		}
		if space.Group != "" && g.groupHouses(p, space.Group) > 0 {
			return fmt.Errorf("%w: sell the buildings in the %s group first", ErrInvalidTrade, space.Group)
		}
	}
	if cash > p.Cash {
		return fmt.Errorf("%w: %s has %d", ErrInsufficientFunds, p.ID, p.Cash)
	}
	return nil
}

// AcceptTrade revalidates the offer and executes it in one step.
func (g *Game) AcceptTrade(playerID, tradeID string) ([]Event, error) {
	if err := g.requireActive(); err != nil {
		return nil, err
	}
	o, err := g.pendingTrade(tradeID)
	if err != nil {
		return nil, err
	}
	if o.Counterparty != playerID {
		return nil, ErrNotYourTurn
	}
	if g.Acquisition != nil {
		return nil, ErrAcquisitionPending
	}
	if err := g.ValidateTrade(o); err != nil {
		return nil, err
	}
	g.execute(o)
	o.Status = TradeAccepted
	g.removeTrade(o.ID)
	return []Event{{Type: EventTradeAccepted, Player: playerID, Data: map[string]interface{}{
		"trade":                   o.ID,
		"proposer":                o.Proposer,
		"proposer_properties":     o.ProposerProperties,
		"proposer_cash":           o.ProposerCash,
		"counterparty_properties": o.CounterpartyProperties,
		"counterparty_cash":       o.CounterpartyCash,
	}}}, nil
}

func (g *Game) RejectTrade(playerID, tradeID string) ([]Event, error) {
	return g.closeTrade(tradeID, TradeRejected, EventTradeRejected, func(o *TradeOffer) bool {
		return o.Counterparty == playerID
	})
}

func (g *Game) CancelTrade(playerID, tradeID string) ([]Event, error) {
	return g.closeTrade(tradeID, TradeCancelled, EventTradeCancelled, func(o *TradeOffer) bool {
		return o.Proposer == playerID
	})
}

func (g *Game) closeTrade(tradeID string, status TradeStatus, ev EventType, allowed func(*TradeOffer) bool) ([]Event, error) {
	if err := g.requireActive(); err != nil {
		return nil, err
	}
	o, err := g.pendingTrade(tradeID)
	if err != nil {
		return nil, err
	}
	if !allowed(o) {
		return nil, ErrNotYourTurn
	}
	o.Status = status
	g.removeTrade(o.ID)
	return []Event{{Type: ev, Data: map[string]interface{}{"trade": o.ID}}}, nil
}

// execute swaps ownership and nets the cash. The offer has been validated, so
// every step succeeds.
func (g *Game) execute(o *TradeOffer) {
	proposer := g.GetPlayer(o.Proposer)
	counterparty := g.GetPlayer(o.Counterparty)
	for _, id := range o.ProposerProperties {
		proposer.removeProperty(id)
		counterparty.addProperty(id, false)
	}
	for _, id := range o.CounterpartyProperties {
		counterparty.removeProperty(id)
		proposer.addProperty(id, false)
	}
	net := o.CounterpartyCash - o.ProposerCash
	proposer.Cash += net
	counterparty.Cash -= net
}

func (g *Game) pendingTrade(id string) (*TradeOffer, error) {
	for _, o := range g.Trades {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrTradeNotFound
}

func (g *Game) removeTrade(id string) {
	for i, o := range g.Trades {
		if o.ID == id {
			g.Trades = append(g.Trades[:i], g.Trades[i+1:]...)
			return
		}
	}
}

// dropTrades cancels every pending offer matching pred.
func (g *Game) dropTrades(pred func(*TradeOffer) bool) []Event {
	var events []Event
	kept := g.Trades[:0]
	for _, o := range g.Trades {
		if pred(o) {
			o.Status = TradeCancelled
			events = append(events, Event{Type: EventTradeCancelled, Data: map[string]interface{}{"trade": o.ID}})
			continue
		}
		kept = append(kept, o)
	}
	g.Trades = kept
	if len(g.Trades) == 0 {
		g.Trades = nil
	}
	return events
}
