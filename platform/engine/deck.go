package engine

import (
	"math/rand"

	"github.com/DedS3t/minopolis/app/models"
)

// Deck is a Chance or Community Chest pile. Cards are drawn without
// replacement; the discard pile is reshuffled once the draw pile runs out.
// Get out of jail free cards sit with their holder until used.
type Deck struct {
	Kind    models.SpaceKind `json:"kind"`
	Draw    []models.Card    `json:"draw"`
	Discard []models.Card    `json:"discard"`
}

func NewDeck(kind models.SpaceKind, cards []models.Card, rng *rand.Rand) *Deck {
	d := &Deck{Kind: kind, Draw: make([]models.Card, len(cards))}
	copy(d.Draw, cards)
	shuffle(d.Draw, rng)
	return d
}

func shuffle(cards []models.Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Take removes the top card. ok is false only when every card is held by
// players.
func (d *Deck) Take(rng *rand.Rand) (card models.Card, ok bool) {
	if len(d.Draw) == 0 {
		d.Draw, d.Discard = d.Discard, nil
		shuffle(d.Draw, rng)
	}
	if len(d.Draw) == 0 {
		return models.Card{}, false
	}
	card = d.Draw[0]
	d.Draw = d.Draw[1:]
	return card, true
}

// Return puts a used card on the discard pile.
func (d *Deck) Return(card models.Card) {
	d.Discard = append(d.Discard, card)
}

func (d *Deck) Len() int {
	return len(d.Draw)
}
