package engine

import "github.com/DedS3t/minopolis/app/models"

// transfer moves amount from one ledger entry to another; Bank on either side
// means the bank. A payer who cannot cover the amount is liquidated first and
// declared bankrupt if that is still not enough, in which case the payment
// itself is never applied.
func (g *Game) transfer(from, to string, amount int, reason string) []Event {
	if amount <= 0 {
		return nil
	}
	payer := g.GetPlayer(from)
	payee := g.GetPlayer(to)

	var events []Event
	if payer != nil {
		if payer.Cash < amount {
			events = append(events, g.liquidate(payer, amount)...)
			if payer.Cash < amount {
				return append(events, g.bankrupt(payer, to, amount)...)
			}
		}
		payer.Cash -= amount
	}
	if payee != nil {
		payee.Cash += amount
	}
	return append(events, Event{Type: EventPayment, Player: from, Data: map[string]interface{}{
		"to": to, "amount": amount, "reason": reason,
	}})
}

// liquidate sells houses, most developed first, then mortgages unimproved
// properties in board order until p holds at least target.
func (g *Game) liquidate(p *Player, target int) []Event {
	var events []Event
	for p.Cash < target {
		id := g.mostDeveloped(p)
		if id == "" {
			break
		}
		space, _ := g.Board.GetById(id)
		events = append(events, g.sellHouse(p, space)...)
	}
	if p.Cash >= target {
		return events
	}
	for _, space := range g.ownedInBoardOrder(p) {
		if p.Cash >= target {
			break
		}
		if p.IsMortgaged(space.Id) || p.HouseCount(space.Id) > 0 {
			continue
		}
		events = append(events, g.mortgage(p, space)...)
	}
	return events
}

// mostDeveloped picks the property with the most houses. Selling from it never
// breaks the even building rule.
func (g *Game) mostDeveloped(p *Player) string {
	best, bestN := "", 0
	for _, space := range g.ownedInBoardOrder(p) {
		if n := p.HouseCount(space.Id); n > bestN {
			best, bestN = space.Id, n
		}
	}
	return best
}

// bankrupt removes p from the rotation. Remaining assets go to the creditor,
// or back to the bank when the debt was owed to the bank.
func (g *Game) bankrupt(p *Player, creditorID string, debt int) []Event {
	creditor := g.GetPlayer(creditorID)
	properties := make([]string, 0, len(p.Owned))
	for _, s := range g.ownedInBoardOrder(p) {
		properties = append(properties, s.Id)
	}
	events := []Event{{Type: EventBankruptcy, Player: p.ID, Data: map[string]interface{}{
		"creditor": creditorID, "debt": debt, "cash": p.Cash, "properties": properties,
	}}}

	if creditor != nil {
		creditor.Cash += p.Cash
		for _, id := range properties {
			creditor.addProperty(id, p.IsMortgaged(id))
		}
		creditor.JailCards = append(creditor.JailCards, p.JailCards...)
	} else {
		for _, held := range p.JailCards {
			g.deck(held.Deck).Return(held.Card)
		}
	}
	for _, id := range properties {
		p.removeProperty(id)
	}
	p.Cash = 0
	p.JailCards = nil
	p.InJail = false
	p.JailAttempts = 0
	p.Bankrupt = true

	events = append(events, g.dropTrades(func(o *TradeOffer) bool {
		return o.Proposer == p.ID || o.Counterparty == p.ID
	})...)
	events = append(events, g.withdrawFromAcquisition(p)...)

	if active := g.ActivePlayers(); len(active) == 1 {
		g.Phase = PhaseFinished
		g.Winner = active[0].ID
		g.Acquisition = nil
		return append(events, Event{Type: EventGameOver, Player: g.Winner})
	}
	if g.Turn.PlayerID == p.ID {
		events = append(events, g.nextTurn()...)
	}
	return events
}

// netWorth is cash plus the liquidation value of every holding.
func (g *Game) netWorth(p *Player) int {
	total := p.Cash
	for _, s := range g.ownedInBoardOrder(p) {
		if !p.IsMortgaged(s.Id) {
			total += s.MortgageValue()
		}
		if s.Kind == models.KindProperty {
			total += p.HouseCount(s.Id) * s.HouseCost / 2
		}
	}
	return total
}
