package engine

import "github.com/DedS3t/minopolis/app/models"

func (g *Game) drawCard(p *Player, kind models.SpaceKind) []Event {
	deck := g.deck(kind)
	card, ok := deck.Take(g.rng)
	if !ok {
		return nil
	}
	events := []Event{{Type: EventCardDrawn, Player: p.ID, Data: map[string]interface{}{
		"deck": string(kind), "card": card.Id, "description": card.Description,
	}}}

	if card.Kind == models.CardJailFree {
		p.JailCards = append(p.JailCards, JailCard{Deck: kind, Card: card})
		return events
	}
	// Discard before resolving so a move onto another draw space can reshuffle.
	deck.Return(card)

	switch card.Kind {
	case models.CardCash:
		if card.Amount >= 0 {
			return append(events, g.transfer(Bank, p.ID, card.Amount, card.Id)...)
		}
		return append(events, g.transfer(p.ID, Bank, -card.Amount, card.Id)...)
	case models.CardMove:
		return append(events, g.advance(p, card.Amount)...)
	case models.CardMoveTo:
		return append(events, g.moveTo(p, card.Target)...)
	case models.CardGoToJail:
		return append(events, g.sendToJail(p, card.Id)...)
	case models.CardRepairs:
		houses, hotels := p.buildings()
		return append(events, g.transfer(p.ID, Bank, houses*card.PerHouse+hotels*card.PerHotel, card.Id)...)
	}
	return events
}
