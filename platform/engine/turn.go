package engine

import (
	"fmt"

	"github.com/DedS3t/minopolis/app/models"
)

// RollDice rolls for the active player and resolves the move.
func (g *Game) RollDice(playerID string) ([]Event, error) {
	p, err := g.requireTurnWindow(playerID)
	if err != nil {
		return nil, err
	}
	if g.Turn.Rolled {
		return nil, ErrAlreadyRolled
	}
	d1, d2 := g.dice.Roll()
	return g.applyRoll(p, d1, d2), nil
}

func (g *Game) applyRoll(p *Player, d1, d2 int) []Event {
	g.Turn.Dice = [2]int{d1, d2}
	g.Turn.Rolled = true
	double := d1 == d2

	events := []Event{{Type: EventDiceRolled, Player: p.ID, Data: map[string]interface{}{
		"dice": []int{d1, d2}, "double": double,
	}}}

	if p.InJail {
		return append(events, g.rollInJail(p, d1, d2)...)
	}

	if double {
		g.Turn.Doubles++
		if g.Turn.Doubles >= g.Rules.MaxDoubles {
			return append(events, g.sendToJail(p, "doubles")...)
		}
	} else {
		g.Turn.Doubles = 0
	}

	events = append(events, g.advance(p, d1+d2)...)

	// A double earns another roll unless the move ended the turn early.
	if double && g.Turn.PlayerID == p.ID && !p.InJail && g.Phase == PhaseActive {
		g.Turn.Rolled = false
	}
	return events
}

func (g *Game) rollInJail(p *Player, d1, d2 int) []Event {
	if d1 == d2 {
		p.InJail = false
		p.JailAttempts = 0
		g.Turn.Doubles = 0
		events := []Event{{Type: EventReleased, Player: p.ID, Data: map[string]interface{}{"by": "doubles"}}}
		return append(events, g.advance(p, d1+d2)...)
	}

	p.JailAttempts++
	if p.JailAttempts < g.Rules.MaxJailAttempts {
		return []Event{{Type: EventStillInJail, Player: p.ID, Data: map[string]interface{}{"attempts": p.JailAttempts}}}
	}

	events := g.transfer(p.ID, Bank, g.Rules.JailFine, "jail fine")
	if p.Bankrupt {
		return events
	}
	p.InJail = false
	p.JailAttempts = 0
	events = append(events, Event{Type: EventReleased, Player: p.ID, Data: map[string]interface{}{"by": "fine"}})
	return append(events, g.advance(p, d1+d2)...)
}

// advance moves a token by steps (negative moves backwards) and resolves the
// landing. Passing Go moving forwards pays the salary.
func (g *Game) advance(p *Player, steps int) []Event {
	size := g.Board.Len()
	from := p.Position
	p.Position = ((from+steps)%size + size) % size

	events := []Event{{Type: EventMoved, Player: p.ID, Data: map[string]interface{}{"from": from, "to": p.Position}}}
	if steps > 0 && p.Position < from {
		events = append(events, g.passGo(p)...)
	}
	return append(events, g.land(p)...)
}

// moveTo sends a token forward to target, collecting the salary on the way.
func (g *Game) moveTo(p *Player, target int) []Event {
	from := p.Position
	p.Position = target

	events := []Event{{Type: EventMoved, Player: p.ID, Data: map[string]interface{}{"from": from, "to": target}}}
	if target < from {
		events = append(events, g.passGo(p)...)
	}
	return append(events, g.land(p)...)
}

func (g *Game) passGo(p *Player) []Event {
	events := []Event{{Type: EventPassedGo, Player: p.ID, Data: map[string]interface{}{"amount": g.Rules.PassGoAmount}}}
	return append(events, g.transfer(Bank, p.ID, g.Rules.PassGoAmount, "pass go")...)
}

func (g *Game) land(p *Player) []Event {
	space, err := g.Board.GetByPos(p.Position)
	if err != nil {
		return nil
	}

	switch space.Kind {
	case models.KindProperty, models.KindRailroad, models.KindUtility:
		owner := g.OwnerOf(space.Id)
		switch {
		case owner == nil:
			g.Acquisition = &Acquisition{State: AcquisitionOffered, Space: space.Id, Lander: p.ID}
			return []Event{{Type: EventPurchaseOffered, Player: p.ID, Data: map[string]interface{}{
				"space": space.Id, "price": space.Price,
			}}}
		case owner == p || owner.IsMortgaged(space.Id):
			return nil
		default:
			rent := g.ComputeRent(space, owner, g.Turn.Dice[0]+g.Turn.Dice[1])
			return g.transfer(p.ID, owner.ID, rent, "rent "+space.Id)
		}
	case models.KindTax:
		return g.transfer(p.ID, Bank, space.Tax, space.Name)
	case models.KindChance, models.KindCommunityChest:
		return g.drawCard(p, space.Kind)
	case models.KindGoToJail:
		return g.sendToJail(p, "go to jail")
	}
	return nil
}

func (g *Game) sendToJail(p *Player, reason string) []Event {
	p.Position = g.Board.JailPosition()
	p.InJail = true
	p.JailAttempts = 0
	if g.Turn.PlayerID == p.ID {
		g.Turn.Doubles = 0
		g.Turn.Rolled = true
	}
	return []Event{{Type: EventJailed, Player: p.ID, Data: map[string]interface{}{"reason": reason}}}
}

// PayJailFine releases the active player before they roll.
func (g *Game) PayJailFine(playerID string) ([]Event, error) {
	p, err := g.requireJailed(playerID)
	if err != nil {
		return nil, err
	}
	if p.Cash < g.Rules.JailFine {
		return nil, fmt.Errorf("%w: fine is %d", ErrInsufficientFunds, g.Rules.JailFine)
	}
	events := g.transfer(p.ID, Bank, g.Rules.JailFine, "jail fine")
	p.InJail = false
	p.JailAttempts = 0
	return append(events, Event{Type: EventReleased, Player: p.ID, Data: map[string]interface{}{"by": "fine"}}), nil
}

// UseJailCard spends a get out of jail free card before rolling.
func (g *Game) UseJailCard(playerID string) ([]Event, error) {
	p, err := g.requireJailed(playerID)
	if err != nil {
		return nil, err
	}
	if len(p.JailCards) == 0 {
		return nil, ErrNoJailCard
	}
	held := p.JailCards[0]
	p.JailCards = p.JailCards[1:]
	g.deck(held.Deck).Return(held.Card)
	p.InJail = false
	p.JailAttempts = 0
	return []Event{{Type: EventReleased, Player: p.ID, Data: map[string]interface{}{"by": "card"}}}, nil
}

func (g *Game) requireJailed(playerID string) (*Player, error) {
	p, err := g.requireTurnWindow(playerID)
	if err != nil {
		return nil, err
	}
	if !p.InJail {
		return nil, ErrNotInJail
	}
	if g.Turn.Rolled {
		return nil, ErrAlreadyRolled
	}
	return p, nil
}

// EndTurn passes the turn to the next player in the rotation.
func (g *Game) EndTurn(playerID string) ([]Event, error) {
	if _, err := g.requireTurnWindow(playerID); err != nil {
		return nil, err
	}
	if !g.Turn.Rolled {
		return nil, ErrMustRoll
	}
	return g.nextTurn(), nil
}

// ForceEndTurn ends the active turn regardless of its state. A pending
// purchase is declined and any auction is passed out by every remaining
// bidder. It exists for external timeout policies.
func (g *Game) ForceEndTurn() ([]Event, error) {
	if err := g.requireActive(); err != nil {
		return nil, err
	}
	var events []Event
	if acq := g.Acquisition; acq != nil && acq.State == AcquisitionOffered {
		events = append(events, g.startAuction(acq)...)
	}
	for g.Acquisition != nil {
		events = append(events, g.passCurrentBidder()...)
	}
	if g.Phase != PhaseActive {
		return events, nil
	}
	return append(events, g.nextTurn()...), nil
}

func (g *Game) nextTurn() []Event {
	current := g.Turn.PlayerID
	events := []Event{{Type: EventTurnEnd, Player: current}}
	events = append(events, g.dropTrades(func(o *TradeOffer) bool { return true })...)

	idx := 0
	for i, p := range g.Players {
		if p.ID == current {
			idx = i
			break
		}
	}
	for step := 1; step <= len(g.Players); step++ {
		next := g.Players[(idx+step)%len(g.Players)]
		if !next.Bankrupt {
			g.Turn = Turn{PlayerID: next.ID}
			break
		}
	}
	return append(events, Event{Type: EventTurnStart, Player: g.Turn.PlayerID})
}
