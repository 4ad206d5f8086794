package engine

import "fmt"

// AcquisitionState tracks an unowned space someone landed on:
// Idle -> OfferedToLander -> {Purchased | AuctionPending} -> AuctionInProgress
// -> {Sold | Unsold} -> Idle. Only OfferedToLander and AuctionInProgress are
// ever stored; the others are reported through events.
type AcquisitionState string

const (
	AcquisitionOffered        AcquisitionState = "offered_to_lander"
	AcquisitionPurchased      AcquisitionState = "purchased"
	AcquisitionAuctionPending AcquisitionState = "auction_pending"
	AcquisitionAuction        AcquisitionState = "auction_in_progress"
	AcquisitionSold           AcquisitionState = "sold"
	AcquisitionUnsold         AcquisitionState = "unsold"
)

type Acquisition struct {
	State   AcquisitionState `json:"state"`
	Space   string           `json:"space"`
	Lander  string           `json:"lander"`
	Auction *Auction         `json:"auction,omitempty"`
}

// Auction is a sequential open-outcry auction. Bidders act in turn; passing
// drops a bidder for good.
type Auction struct {
	Space      string   `json:"space"`
	HighBid    int      `json:"high_bid"`
	HighBidder string   `json:"high_bidder,omitempty"`
	Bidders    []string `json:"bidders"`
	Current    int      `json:"current"`
}

// CurrentBidder returns whose turn it is to bid or pass.
func (a *Auction) CurrentBidder() string {
	if len(a.Bidders) == 0 {
		return ""
	}
	return a.Bidders[a.Current]
}

// Buy purchases the offered space at list price.
func (g *Game) Buy(playerID string) ([]Event, error) {
	p, acq, err := g.requireOffer(playerID)
	if err != nil {
		return nil, err
	}
	space, err := g.space(acq.Space)
	if err != nil {
		return nil, err
	}
	if p.Cash < space.Price {
		return nil, fmt.Errorf("%w: price is %d", ErrInsufficientFunds, space.Price)
	}
	p.Cash -= space.Price
	p.addProperty(space.Id, false)
	g.Acquisition = nil
	return []Event{{Type: EventPurchased, Player: p.ID, Data: map[string]interface{}{
		"space": space.Id, "price": space.Price, "state": string(AcquisitionPurchased),
	}}}, nil
}

// Decline turns down the offer and opens the auction.
func (g *Game) Decline(playerID string) ([]Event, error) {
	_, acq, err := g.requireOffer(playerID)
	if err != nil {
		return nil, err
	}
	return g.startAuction(acq), nil
}

func (g *Game) requireOffer(playerID string) (*Player, *Acquisition, error) {
	p, err := g.requireTurn(playerID)
	if err != nil {
		return nil, nil, err
	}
	acq := g.Acquisition
	if acq == nil || acq.State != AcquisitionOffered {
		return nil, nil, ErrNoOffer
	}
	if acq.Lander != playerID {
		return nil, nil, ErrNotYourTurn
	}
	return p, acq, nil
}

// startAuction seats every active player, lander included, starting with the
// seat after the lander.
func (g *Game) startAuction(acq *Acquisition) []Event {
	acq.State = AcquisitionAuctionPending

	start := 0
	for i, p := range g.Players {
		if p.ID == acq.Lander {
			start = i + 1
			break
		}
	}
	var bidders []string
	for step := 0; step < len(g.Players); step++ {
		p := g.Players[(start+step)%len(g.Players)]
		if !p.Bankrupt {
			bidders = append(bidders, p.ID)
		}
	}

	acq.Auction = &Auction{Space: acq.Space, Bidders: bidders}
	acq.State = AcquisitionAuction
	return []Event{{Type: EventAuctionStart, Player: acq.Lander, Data: map[string]interface{}{
		"space": acq.Space, "bidders": bidders,
	}}}
}

// Bid raises the high bid. The bid must beat the current one by at least the
// minimum increment and be covered by the bidder's cash.
func (g *Game) Bid(playerID string, amount int) ([]Event, error) {
	a, p, err := g.requireBidder(playerID)
	if err != nil {
		return nil, err
	}
	if amount <= a.HighBid || amount < a.HighBid+g.Rules.AuctionMinIncrement {
		return nil, fmt.Errorf("%w: must be at least %d", ErrBidTooLow, a.HighBid+g.Rules.AuctionMinIncrement)
	}
	if amount > p.Cash {
		return nil, fmt.Errorf("%w: have %d", ErrInsufficientFunds, p.Cash)
	}

	a.HighBid = amount
	a.HighBidder = playerID
	events := []Event{{Type: EventBid, Player: playerID, Data: map[string]interface{}{"space": a.Space, "amount": amount}}}
	if len(a.Bidders) == 1 {
		return append(events, g.settleAuction()...), nil
	}
	a.Current = (a.Current + 1) % len(a.Bidders)
	return events, nil
}

// Pass drops the current bidder from the auction.
func (g *Game) Pass(playerID string) ([]Event, error) {
	if _, _, err := g.requireBidder(playerID); err != nil {
		return nil, err
	}
	return g.passCurrentBidder(), nil
}

// ForcePass passes on behalf of whoever is due to bid.
func (g *Game) ForcePass() ([]Event, error) {
	if err := g.requireActive(); err != nil {
		return nil, err
	}
	if g.auction() == nil {
		return nil, ErrNoAuction
	}
	return g.passCurrentBidder(), nil
}

func (g *Game) auction() *Auction {
	if g.Acquisition == nil || g.Acquisition.State != AcquisitionAuction {
		return nil
	}
	return g.Acquisition.Auction
}

func (g *Game) requireBidder(playerID string) (*Auction, *Player, error) {
	if err := g.requireActive(); err != nil {
		return nil, nil, err
	}
	a := g.auction()
	if a == nil {
		return nil, nil, ErrNoAuction
	}
	if a.CurrentBidder() != playerID {
		return nil, nil, ErrNotYourTurnToBid
	}
	return a, g.GetPlayer(playerID), nil
}

func (g *Game) passCurrentBidder() []Event {
	a := g.auction()
	if a == nil {
		return nil
	}
	passed := a.CurrentBidder()
	events := []Event{{Type: EventBidderPassed, Player: passed, Data: map[string]interface{}{"space": a.Space}}}
	return append(events, g.removeBidder(a, a.Current)...)
}

func (g *Game) removeBidder(a *Auction, idx int) []Event {
	a.Bidders = append(a.Bidders[:idx], a.Bidders[idx+1:]...)
	switch {
	case idx < a.Current:
		a.Current--
	case a.Current >= len(a.Bidders):
		a.Current = 0
	}
	if len(a.Bidders) == 0 || (len(a.Bidders) == 1 && a.HighBid > 0) {
		return g.settleAuction()
	}
	return nil
}

// withdrawFromAcquisition takes a player who just went bankrupt out of any
// pending offer or auction.
func (g *Game) withdrawFromAcquisition(p *Player) []Event {
	acq := g.Acquisition
	if acq == nil {
		return nil
	}
	if acq.State == AcquisitionOffered {
		if acq.Lander == p.ID {
			g.Acquisition = nil
		}
		return nil
	}
	a := acq.Auction
	if a.HighBidder == p.ID {
		a.HighBid, a.HighBidder = 0, ""
	}
	for i, id := range a.Bidders {
		if id == p.ID {
			return g.removeBidder(a, i)
		}
	}
	return nil
}

func (g *Game) settleAuction() []Event {
	a := g.auction()
	g.Acquisition = nil
	if a.HighBid == 0 || a.HighBidder == "" {
		return []Event{{Type: EventAuctionUnsold, Data: map[string]interface{}{
			"space": a.Space, "state": string(AcquisitionUnsold),
		}}}
	}
	winner := g.GetPlayer(a.HighBidder)
	winner.Cash -= a.HighBid
	winner.addProperty(a.Space, false)
	return []Event{{Type: EventAuctionSold, Player: winner.ID, Data: map[string]interface{}{
		"space": a.Space, "amount": a.HighBid, "state": string(AcquisitionSold),
	}}}
}
