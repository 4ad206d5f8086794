package engine

// ValidationError reports a command whose preconditions were not met. The
// game state is unchanged when one is returned.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

// StateError reports a command issued in the wrong lifecycle state, such as
// bidding when no auction is running.
type StateError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *StateError) Error() string { return e.Message }

func invalid(code, msg string) *ValidationError { return &ValidationError{Code: code, Message: msg} }
func wrongState(code, msg string) *StateError   { return &StateError{Code: code, Message: msg} }

var (
	ErrNotYourTurn       = invalid("not_your_turn", "not your turn")
	ErrNotYourTurnToBid  = invalid("not_your_turn_to_bid", "not your turn to bid")
	ErrInsufficientFunds = invalid("insufficient_funds", "insufficient funds")
	ErrBidTooLow         = invalid("bid_too_low", "bid too low")
	ErrPlayerNotFound    = invalid("player_not_found", "player not found")
	ErrUnknownSpace      = invalid("unknown_space", "unknown space")
	ErrNotOwner          = invalid("not_owner", "you do not own that property")
	ErrNotBuildable      = invalid("not_buildable", "houses can only be built on color group properties")
	ErrNoMonopoly        = invalid("no_monopoly", "you must own the whole color group")
	ErrGroupMortgaged    = invalid("group_mortgaged", "a property in the color group is mortgaged")
	ErrEvenBuilding      = invalid("even_building", "even building rule violated")
	ErrMaxHouses         = invalid("max_houses", "property already has a hotel")
	ErrNoHouses          = invalid("no_houses", "property has no houses to sell")
	ErrAlreadyMortgaged  = invalid("already_mortgaged", "property is already mortgaged")
	ErrNotMortgaged      = invalid("not_mortgaged", "property is not mortgaged")
	ErrHasHouses         = invalid("has_houses", "sell the houses on this property first")
	ErrInvalidTrade      = invalid("invalid_trade", "invalid trade")
	ErrNotInJail         = invalid("not_in_jail", "you are not in jail")
	ErrNoJailCard        = invalid("no_jail_card", "you have no get out of jail free card")
	ErrInvalidAction     = invalid("invalid_action", "invalid action")
	ErrDuplicatePlayer   = invalid("duplicate_player", "player already joined")
	ErrGameFull          = invalid("game_full", "game is full")
	ErrNotEnoughPlayers  = invalid("not_enough_players", "not enough players")

	ErrAlreadyRolled       = wrongState("already_rolled", "turn already rolled")
	ErrMustRoll            = wrongState("must_roll", "you must roll the dice first")
	ErrNoAuction           = wrongState("no_auction", "no auction in progress")
	ErrNoOffer             = wrongState("no_offer", "no purchase offer pending")
	ErrAcquisitionPending  = wrongState("acquisition_pending", "resolve the pending purchase first")
	ErrNotStarted          = wrongState("not_started", "game has not started")
	ErrAlreadyStarted      = wrongState("already_started", "game already started")
	ErrGameOver            = wrongState("game_over", "game is over")
	ErrTradeNotFound       = wrongState("trade_not_found", "no such pending trade")
	ErrUnsupportedSnapshot = wrongState("unsupported_snapshot", "unsupported snapshot version")
)
