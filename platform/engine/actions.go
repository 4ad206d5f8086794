package engine

type ActionType string

const (
	ActionRoll         ActionType = "roll"
	ActionBuy          ActionType = "buy"
	ActionDecline      ActionType = "decline"
	ActionBid          ActionType = "bid"
	ActionPass         ActionType = "pass"
	ActionBuild        ActionType = "build"
	ActionSell         ActionType = "sell"
	ActionMortgage     ActionType = "mortgage"
	ActionUnmortgage   ActionType = "unmortgage"
	ActionPayJailFine  ActionType = "pay_jail_fine"
	ActionUseJailCard  ActionType = "use_jail_card"
	ActionProposeTrade ActionType = "propose_trade"
	ActionAcceptTrade  ActionType = "accept_trade"
	ActionRejectTrade  ActionType = "reject_trade"
	ActionCancelTrade  ActionType = "cancel_trade"
	ActionEndTurn      ActionType = "end_turn"
)

// Action is a player command. Only the fields its type needs are read.
type Action struct {
	Type    ActionType  `json:"type"`
	Space   string      `json:"space,omitempty"`
	Amount  int         `json:"amount,omitempty"`
	TradeID string      `json:"trade_id,omitempty"`
	Trade   *TradeTerms `json:"trade,omitempty"`
}
