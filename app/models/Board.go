package models

// SpaceKind identifies what happens when a token lands on a space.
type SpaceKind string

const (
	KindProperty       SpaceKind = "property"
	KindRailroad       SpaceKind = "railroad"
	KindUtility        SpaceKind = "utility"
	KindTax            SpaceKind = "tax"
	KindChance         SpaceKind = "chance"
	KindCommunityChest SpaceKind = "chest"
	KindGo             SpaceKind = "go"
	KindJail           SpaceKind = "jail"
	KindFreeParking    SpaceKind = "parking"
	KindGoToJail       SpaceKind = "gotojail"
)

// Space is one of the 40 board squares.
type Space struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      SpaceKind `json:"kind"`
	Position  int       `json:"position"`
	Group     string    `json:"group,omitempty"`
	Price     int       `json:"price,omitempty"`
	Rent      []int     `json:"rent,omitempty"` // indexed by house count, 5 = hotel
	HouseCost int       `json:"housecost,omitempty"`
	Tax       int       `json:"tax,omitempty"`
}

// Ownable reports whether the space can be bought.
func (s Space) Ownable() bool {
	return s.Kind == KindProperty || s.Kind == KindRailroad || s.Kind == KindUtility
}

// MortgageValue is the cash paid out when the space is mortgaged.
func (s Space) MortgageValue() int {
	return s.Price / 2
}

type CardKind string

const (
	CardCash     CardKind = "cash"
	CardMove     CardKind = "move"
	CardMoveTo   CardKind = "move_to"
	CardJailFree CardKind = "jail_free"
	CardGoToJail CardKind = "go_to_jail"
	CardRepairs  CardKind = "repairs"
)

// Card is a Chance or Community Chest card.
type Card struct {
	Id          string   `json:"id"`
	Description string   `json:"description"`
	Kind        CardKind `json:"kind"`
	Amount      int      `json:"amount,omitempty"` // cash delta or relative move
	Target      int      `json:"target,omitempty"` // board position for move_to
	PerHouse    int      `json:"per_house,omitempty"`
	PerHotel    int      `json:"per_hotel,omitempty"`
}
