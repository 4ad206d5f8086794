package engine

import "github.com/DedS3t/minopolis/app/models"

// ComputeRent returns what a visitor owes owner for landing on space.
// diceSum only matters for utilities. Mortgaged spaces charge nothing.
func (g *Game) ComputeRent(space models.Space, owner *Player, diceSum int) int {
	if owner == nil || !owner.Owns(space.Id) || owner.IsMortgaged(space.Id) {
		return 0
	}

	switch space.Kind {
	case models.KindProperty:
		if houses := owner.HouseCount(space.Id); houses > 0 {
			return space.Rent[houses]
		}
		if g.OwnsSet(owner, space.Group) && g.groupHouses(owner, space.Group) == 0 {
			return space.Rent[0] * 2
		}
		return space.Rent[0]
	case models.KindRailroad:
		return scheduleAt(g.Rules.RailroadRent, g.countOwned(owner, models.KindRailroad))
	case models.KindUtility:
		return diceSum * scheduleAt(g.Rules.UtilityMultipliers, g.countOwned(owner, models.KindUtility))
	}
	return 0
}

// OwnsSet reports whether p owns every property of a color group with none
// of them mortgaged.
func (g *Game) OwnsSet(p *Player, group string) bool {
	ids := g.Board.Group(group)
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !p.Owns(id) || p.IsMortgaged(id) {
			return false
		}
	}
	return true
}

func (g *Game) groupHouses(p *Player, group string) int {
	total := 0
	for _, id := range g.Board.Group(group) {
		total += p.HouseCount(id)
	}
	return total
}

func (g *Game) countOwned(p *Player, kind models.SpaceKind) int {
	ids := make([]string, 0, len(p.Owned))
	for id := range p.Owned {
		ids = append(ids, id)
	}
	return g.Board.CountKind(ids, kind)
}
