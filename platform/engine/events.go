package engine

type EventType string

const (
	EventPlayerJoined    EventType = "player_joined"
	EventPlayerLeft      EventType = "player_left"
	EventGameStart       EventType = "game_start"
	EventTurnStart       EventType = "turn_start"
	EventDiceRolled      EventType = "dice_rolled"
	EventMoved           EventType = "moved"
	EventPassedGo        EventType = "passed_go"
	EventJailed          EventType = "jailed"
	EventStillInJail     EventType = "still_in_jail"
	EventReleased        EventType = "released"
	EventPayment         EventType = "payment"
	EventCardDrawn       EventType = "card_drawn"
	EventPurchaseOffered EventType = "purchase_offered"
	EventPurchased       EventType = "purchased"
	EventAuctionStart    EventType = "auction_start"
	EventBid             EventType = "bid"
	EventBidderPassed    EventType = "bidder_passed"
	EventAuctionSold     EventType = "auction_sold"
	EventAuctionUnsold   EventType = "auction_unsold"
	EventHouseBuilt      EventType = "house_built"
	EventHouseSold       EventType = "house_sold"
	EventMortgaged       EventType = "mortgaged"
	EventUnmortgaged     EventType = "unmortgaged"
	EventTradeProposed   EventType = "trade_proposed"
	EventTradeAccepted   EventType = "trade_accepted"
	EventTradeRejected   EventType = "trade_rejected"
	EventTradeCancelled  EventType = "trade_cancelled"
	EventBankruptcy      EventType = "bankruptcy"
	EventTurnEnd         EventType = "turn_end"
	EventGameOver        EventType = "game_over"
)

// Event describes one state transition. Events are informational; the game
// state is the source of truth.
type Event struct {
	Type   EventType              `json:"type"`
	Player string                 `json:"player,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}
