package engine

import "github.com/DedS3t/minopolis/app/models"

// JailCard is a held get out of jail free card and the deck it returns to.
type JailCard struct {
	Deck models.SpaceKind `json:"deck"`
	Card models.Card      `json:"card"`
}

// Player is one seat's ledger entry.
type Player struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Cash         int             `json:"cash"`
	Position     int             `json:"position"`
	Owned        map[string]bool `json:"owned"`
	Mortgaged    map[string]bool `json:"mortgaged"`
	Houses       map[string]int  `json:"houses"` // 5 = hotel
	InJail       bool            `json:"in_jail"`
	JailAttempts int             `json:"jail_attempts"`
	JailCards    []JailCard      `json:"jail_cards"`
	Bankrupt     bool            `json:"bankrupt"`
}

func NewPlayer(id, name string) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Owned:     make(map[string]bool),
		Mortgaged: make(map[string]bool),
		Houses:    make(map[string]int),
	}
}

func (p *Player) Owns(id string) bool        { return p.Owned[id] }
func (p *Player) IsMortgaged(id string) bool { return p.Mortgaged[id] }
func (p *Player) HouseCount(id string) int   { return p.Houses[id] }

func (p *Player) addProperty(id string, mortgaged bool) {
	p.Owned[id] = true
	if mortgaged {
		p.Mortgaged[id] = true
	}
}

func (p *Player) removeProperty(id string) {
	delete(p.Owned, id)
	delete(p.Mortgaged, id)
	delete(p.Houses, id)
}

func (p *Player) setHouses(id string, n int) {
	if n == 0 {
		delete(p.Houses, id)
		return
	}
	p.Houses[id] = n
}

// buildings counts houses and hotels separately.
func (p *Player) buildings() (houses, hotels int) {
	for _, n := range p.Houses {
		if n == 5 {
			hotels++
		} else {
			houses += n
		}
	}
	return houses, hotels
}
