package engine

import "github.com/DedS3t/minopolis/app/models"

// GameView is the read model handed to clients.
type GameView struct {
	ID          string         `json:"id"`
	Phase       Phase          `json:"phase"`
	Turn        Turn           `json:"turn"`
	Players     []PlayerView   `json:"players"`
	Acquisition *Acquisition   `json:"acquisition,omitempty"`
	Trades      []TradeOffer   `json:"trades,omitempty"`
	Winner      string         `json:"winner,omitempty"`
	Properties  []PropertyView `json:"properties"`
}

type PlayerView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Cash       int      `json:"cash"`
	NetWorth   int      `json:"net_worth"`
	Position   int      `json:"position"`
	InJail     bool     `json:"in_jail"`
	JailCards  int      `json:"jail_cards"`
	Bankrupt   bool     `json:"bankrupt"`
	Properties []string `json:"properties"`
}

// PropertyView describes one ownable space and what its owner may do with it.
type PropertyView struct {
	models.Space
	Owner         string `json:"owner,omitempty"`
	Mortgaged     bool   `json:"mortgaged"`
	Houses        int    `json:"houses"`
	CurrentRent   int    `json:"current_rent"`
	CanBuild      bool   `json:"can_build"`
	CanSell       bool   `json:"can_sell"`
	CanMortgage   bool   `json:"can_mortgage"`
	CanUnmortgage bool   `json:"can_unmortgage"`
}

// NetWorth returns cash plus the liquidation value of a player's holdings.
func (g *Game) NetWorth(playerID string) int {
	p := g.GetPlayer(playerID)
	if p == nil {
		return 0
	}
	return g.netWorth(p)
}

// View builds a copy of the state that shares nothing with the game.
func (g *Game) View() GameView {
	v := GameView{
		ID:     g.ID,
		Phase:  g.Phase,
		Turn:   g.Turn,
		Winner: g.Winner,
	}
	for _, p := range g.Players {
		owned := make([]string, 0, len(p.Owned))
		for _, s := range g.ownedInBoardOrder(p) {
			owned = append(owned, s.Id)
		}
		v.Players = append(v.Players, PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			Cash:       p.Cash,
			NetWorth:   g.netWorth(p),
			Position:   p.Position,
			InJail:     p.InJail,
			JailCards:  len(p.JailCards),
			Bankrupt:   p.Bankrupt,
			Properties: owned,
		})
	}
	if acq := g.Acquisition; acq != nil {
		cp := *acq
		if acq.Auction != nil {
			a := *acq.Auction
			a.Bidders = append([]string(nil), acq.Auction.Bidders...)
			cp.Auction = &a
		}
		v.Acquisition = &cp
	}
	for _, o := range g.Trades {
		cp := *o
		cp.ProposerProperties = append([]string(nil), o.ProposerProperties...)
		cp.CounterpartyProperties = append([]string(nil), o.CounterpartyProperties...)
		v.Trades = append(v.Trades, cp)
	}

	// Rent shown for utilities assumes the last roll.
	diceSum := g.Turn.Dice[0] + g.Turn.Dice[1]
	for _, s := range g.Board.Spaces() {
		if !s.Ownable() {
			continue
		}
		pv := PropertyView{Space: s}
		if owner := g.OwnerOf(s.Id); owner != nil {
			pv.Owner = owner.ID
			pv.Mortgaged = owner.IsMortgaged(s.Id)
			pv.Houses = owner.HouseCount(s.Id)
			pv.CurrentRent = g.ComputeRent(s, owner, diceSum)
			pv.CanBuild = g.CanBuild(owner.ID, s.Id)
			pv.CanSell = g.CanSell(owner.ID, s.Id)
			pv.CanMortgage = g.CanMortgage(owner.ID, s.Id)
			pv.CanUnmortgage = g.CanUnmortgage(owner.ID, s.Id)
		}
		v.Properties = append(v.Properties, pv)
	}
	return v
}
