package board

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/DedS3t/minopolis/app/models"
)

// Size is the number of spaces on the board.
const Size = 40

var ErrNotFound = errors.New("not found")

//go:embed board.json
var defaultBoard []byte

//go:embed cards.json
var defaultCards []byte

// Catalog is the immutable board. It is safe to share between matches.
type Catalog struct {
	spaces []models.Space
	byId   map[string]int
	groups map[string][]string
	jail   int
}

// Decks holds the card data for both draw piles.
type Decks struct {
	Chance []models.Card `json:"chance"`
	Chest  []models.Card `json:"chest"`
}

// LoadProperties reads a board definition from path, or the built-in board
// when path is empty.
func LoadProperties(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultBoard)
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in board.
func Default() *Catalog {
	c, err := Parse(defaultBoard)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates a board definition.
func Parse(data []byte) (*Catalog, error) {
	var spaces []models.Space
	if err := json.Unmarshal(data, &spaces); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if len(spaces) != Size {
		return nil, fmt.Errorf("board has %d spaces, want %d", len(spaces), Size)
	}

	c := &Catalog{
		spaces: spaces,
		byId:   make(map[string]int, Size),
		groups: make(map[string][]string),
		jail:   -1,
	}
	for i, s := range spaces {
		if s.Position != i {
			return nil, fmt.Errorf("space %q at index %d has position %d", s.Id, i, s.Position)
		}
		if s.Id == "" {
			return nil, fmt.Errorf("space at %d has no id", i)
		}
		if _, dup := c.byId[s.Id]; dup {
			return nil, fmt.Errorf("duplicate space id %q", s.Id)
		}
		c.byId[s.Id] = i

		switch s.Kind {
		case models.KindProperty:
			if s.Group == "" || s.Price <= 0 || s.HouseCost <= 0 || len(s.Rent) != 6 {
				return nil, fmt.Errorf("property %q needs group, price, house cost and 6 rents", s.Id)
			}
			c.groups[s.Group] = append(c.groups[s.Group], s.Id)
		case models.KindRailroad, models.KindUtility:
			if s.Price <= 0 {
				return nil, fmt.Errorf("%s %q needs a price", s.Kind, s.Id)
			}
		case models.KindJail:
			c.jail = i
		case models.KindTax, models.KindChance, models.KindCommunityChest,
			models.KindGo, models.KindFreeParking, models.KindGoToJail:
		default:
			return nil, fmt.Errorf("space %q has unknown kind %q", s.Id, s.Kind)
		}
	}
	if c.jail < 0 {
		return nil, errors.New("board has no jail")
	}
	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.spaces)
}

func (c *Catalog) JailPosition() int {
	return c.jail
}

// Spaces returns a copy of the board in order.
func (c *Catalog) Spaces() []models.Space {
	out := make([]models.Space, len(c.spaces))
	copy(out, c.spaces)
	return out
}

func (c *Catalog) GetByPos(pos int) (models.Space, error) {
	if pos < 0 || pos >= len(c.spaces) {
		return models.Space{}, ErrNotFound
	}
	return c.spaces[pos], nil
}

func (c *Catalog) GetById(id string) (models.Space, error) {
	idx, ok := c.byId[id]
	if !ok {
		return models.Space{}, ErrNotFound
	}
	return c.spaces[idx], nil
}

// Group returns the property ids of a color group in board order.
func (c *Catalog) Group(name string) []string {
	return append([]string(nil), c.groups[name]...)
}

// CountKind returns how many of ids are spaces of the given kind.
func (c *Catalog) CountKind(ids []string, kind models.SpaceKind) int {
	n := 0
	for _, id := range ids {
		if s, err := c.GetById(id); err == nil && s.Kind == kind {
			n++
		}
	}
	return n
}

// LoadSpecial reads the Chance and Community Chest decks from path, or the
// built-in decks when path is empty.
func LoadSpecial(path string) (Decks, error) {
	data := defaultCards
	if path != "" {
		var err error
		if data, err = ioutil.ReadFile(path); err != nil {
			return Decks{}, fmt.Errorf("read decks: %w", err)
		}
	}
	var decks Decks
	if err := json.Unmarshal(data, &decks); err != nil {
		return Decks{}, fmt.Errorf("decode decks: %w", err)
	}
	if len(decks.Chance) == 0 || len(decks.Chest) == 0 {
		return Decks{}, errors.New("both decks need at least one card")
	}
	return decks, nil
}

// DefaultDecks returns the built-in decks.
func DefaultDecks() Decks {
	d, err := LoadSpecial("")
	if err != nil {
		panic(err)
	}
	return d
}
