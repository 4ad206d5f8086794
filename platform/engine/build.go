package engine

import (
	"fmt"

	"github.com/DedS3t/minopolis/app/models"
)

// CanBuild reports whether the player may add a house to the space now.
func (g *Game) CanBuild(playerID, spaceID string) bool {
	p := g.GetPlayer(playerID)
	return p != nil && g.checkBuild(p, spaceID) == nil
}

func (g *Game) CanSell(playerID, spaceID string) bool {
	p := g.GetPlayer(playerID)
	return p != nil && g.checkSell(p, spaceID) == nil
}

func (g *Game) CanMortgage(playerID, spaceID string) bool {
	p := g.GetPlayer(playerID)
	return p != nil && g.checkMortgage(p, spaceID) == nil
}

func (g *Game) CanUnmortgage(playerID, spaceID string) bool {
	p := g.GetPlayer(playerID)
	return p != nil && g.checkUnmortgage(p, spaceID) == nil
}

// Build adds one house (the fifth is a hotel).
func (g *Game) Build(playerID, spaceID string) ([]Event, error) {
	p, err := g.requireTurnWindow(playerID)
	if err != nil {
		return nil, err
	}
	if err := g.checkBuild(p, spaceID); err != nil {
		return nil, err
	}
	space, _ := g.Board.GetById(spaceID)
	p.Cash -= space.HouseCost
	p.setHouses(spaceID, p.HouseCount(spaceID)+1)
	return []Event{{Type: EventHouseBuilt, Player: p.ID, Data: map[string]interface{}{
		"space": spaceID, "houses": p.HouseCount(spaceID), "cost": space.HouseCost,
	}}}, nil
}

// Sell returns one house to the bank for half its cost.
func (g *Game) Sell(playerID, spaceID string) ([]Event, error) {
	p, err := g.requireTurnWindow(playerID)
	if err != nil {
		return nil, err
	}
	if err := g.checkSell(p, spaceID); err != nil {
		return nil, err
	}
	space, _ := g.Board.GetById(spaceID)
	return g.sellHouse(p, space), nil
}

// Mortgage pays out half the price and disables rent on the space.
func (g *Game) Mortgage(playerID, spaceID string) ([]Event, error) {
	p, err := g.requireTurnWindow(playerID)
	if err != nil {
		return nil, err
	}
	if err := g.checkMortgage(p, spaceID); err != nil {
		return nil, err
	}
	space, _ := g.Board.GetById(spaceID)
	return g.mortgage(p, space), nil
}

// Unmortgage repays the mortgage plus interest.
func (g *Game) Unmortgage(playerID, spaceID string) ([]Event, error) {
	p, err := g.requireTurnWindow(playerID)
	if err != nil {
		return nil, err
	}
	if err := g.checkUnmortgage(p, spaceID); err != nil {
		return nil, err
	}
	space, _ := g.Board.GetById(spaceID)
	cost := g.UnmortgageCost(space)
	p.Cash -= cost
	delete(p.Mortgaged, spaceID)
	return []Event{{Type: EventUnmortgaged, Player: p.ID, Data: map[string]interface{}{
		"space": spaceID, "cost": cost,
	}}}, nil
}

// UnmortgageCost is the mortgage value plus interest, rounded up.
func (g *Game) UnmortgageCost(space models.Space) int {
	value := space.MortgageValue()
	return value + (value*g.Rules.MortgageInterestPercent+99)/100
}

func (g *Game) sellHouse(p *Player, space models.Space) []Event {
	refund := space.HouseCost / 2
	p.setHouses(space.Id, p.HouseCount(space.Id)-1)
	p.Cash += refund
	return []Event{{Type: EventHouseSold, Player: p.ID, Data: map[string]interface{}{
		"space": space.Id, "houses": p.HouseCount(space.Id), "refund": refund,
	}}}
}

func (g *Game) mortgage(p *Player, space models.Space) []Event {
	value := space.MortgageValue()
	p.Mortgaged[space.Id] = true
	p.Cash += value
	return []Event{{Type: EventMortgaged, Player: p.ID, Data: map[string]interface{}{
		"space": space.Id, "value": value,
	}}}
}

func (g *Game) ownedSpace(p *Player, spaceID string) (models.Space, error) {
	space, err := g.space(spaceID)
	if err != nil {
		return models.Space{}, err
	}
	if !p.Owns(spaceID) {
		return models.Space{}, fmt.Errorf("%w: %s", ErrNotOwner, spaceID)
	}
	return space, nil
}

// groupRange returns the fewest and most houses across a color group.
func (g *Game) groupRange(p *Player, group string) (lo, hi int) {
	lo = 5
	for _, id := range g.Board.Group(group) {
		n := p.HouseCount(id)
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi
}

func (g *Game) checkBuild(p *Player, spaceID string) error {
	space, err := g.ownedSpace(p, spaceID)
	if err != nil {
		return err
	}
	if space.Kind != models.KindProperty {
		return ErrNotBuildable
	}
	for _, id := range g.Board.Group(space.Group) {
		if !p.Owns(id) {
			return ErrNoMonopoly
		}
		if p.IsMortgaged(id) {
			return ErrGroupMortgaged
		}
	}
	houses := p.HouseCount(spaceID)
	if houses >= 5 {
		return ErrMaxHouses
	}
	if lo, _ := g.groupRange(p, space.Group); houses != lo {
		return fmt.Errorf("%w: %s has %d houses, group minimum is %d", ErrEvenBuilding, spaceID, houses, lo)
	}
	if p.Cash < space.HouseCost {
		return fmt.Errorf("%w: house costs %d", ErrInsufficientFunds, space.HouseCost)
	}
	return nil
}

func (g *Game) checkSell(p *Player, spaceID string) error {
	space, err := g.ownedSpace(p, spaceID)
	if err != nil {
		return err
	}
	houses := p.HouseCount(spaceID)
	if space.Kind != models.KindProperty || houses == 0 {
		return ErrNoHouses
	}
	if _, hi := g.groupRange(p, space.Group); houses != hi {
		return fmt.Errorf("%w: %s has %d houses, group maximum is %d", ErrEvenBuilding, spaceID, houses, hi)
	}
	return nil
}

// checkMortgage requires the whole color group to be free of buildings.
func (g *Game) checkMortgage(p *Player, spaceID string) error {
	space, err := g.ownedSpace(p, spaceID)
	if err != nil {
		return err
	}
	if p.IsMortgaged(spaceID) {
		return ErrAlreadyMortgaged
	}
	if p.HouseCount(spaceID) > 0 {
		return ErrHasHouses
	}
	if space.Kind == models.KindProperty {
		if _, hi := g.groupRange(p, space.Group); hi > 0 {
			return fmt.Errorf("%w: the %s group has buildings", ErrHasHouses, space.Group)
		}
	}
	return nil
}

func (g *Game) checkUnmortgage(p *Player, spaceID string) error {
	space, err := g.ownedSpace(p, spaceID)
	if err != nil {
		return err
	}
	if !p.IsMortgaged(spaceID) {
		return ErrNotMortgaged
	}
	if cost := g.UnmortgageCost(space); p.Cash < cost {
		return fmt.Errorf("%w: payoff is %d", ErrInsufficientFunds, cost)
	}
	return nil
}
