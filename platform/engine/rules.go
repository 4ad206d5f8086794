package engine

import "errors"

// Rules holds the tunable economic constants of a match.
type Rules struct {
	StartingCash            int   `json:"starting_cash"`
	PassGoAmount            int   `json:"pass_go_amount"`
	JailFine                int   `json:"jail_fine"`
	MaxJailAttempts         int   `json:"max_jail_attempts"`
	MaxDoubles              int   `json:"max_doubles"`
	AuctionMinIncrement     int   `json:"auction_min_increment"`
	MortgageInterestPercent int   `json:"mortgage_interest_percent"`
	RailroadRent            []int `json:"railroad_rent"`       // by railroads owned
	UtilityMultipliers      []int `json:"utility_multipliers"` // by utilities owned
	MinPlayers              int   `json:"min_players"`
	MaxPlayers              int   `json:"max_players"`
}

func DefaultRules() Rules {
	return Rules{
		StartingCash:            1500,
		PassGoAmount:            200,
		JailFine:                50,
		MaxJailAttempts:         3,
		MaxDoubles:              3,
		AuctionMinIncrement:     1,
		MortgageInterestPercent: 10,
		RailroadRent:            []int{25, 50, 100, 200},
		UtilityMultipliers:      []int{4, 10},
		MinPlayers:              2,
		MaxPlayers:              8,
	}
}

func (r Rules) Validate() error {
	switch {
	case r.StartingCash <= 0:
		return errors.New("starting cash must be positive")
	case r.PassGoAmount < 0 || r.JailFine < 0:
		return errors.New("pass go amount and jail fine must not be negative")
	case r.MaxJailAttempts < 1 || r.MaxDoubles < 1:
		return errors.New("jail attempts and max doubles must be at least 1")
	case r.AuctionMinIncrement < 1:
		return errors.New("auction minimum increment must be at least 1")
	case r.MortgageInterestPercent < 0:
		return errors.New("mortgage interest must not be negative")
	case len(r.RailroadRent) == 0 || len(r.UtilityMultipliers) == 0:
		return errors.New("railroad and utility schedules are required")
	case r.MinPlayers < 2 || r.MaxPlayers < r.MinPlayers:
		return errors.New("player limits are invalid")
	}
	return nil
}

// scheduleAt returns the entry for n owned spaces, clamped to the last entry.
func scheduleAt(schedule []int, n int) int {
	if n <= 0 || len(schedule) == 0 {
		return 0
	}
	if n > len(schedule) {
		n = len(schedule)
	}
	return schedule[n-1]
}
